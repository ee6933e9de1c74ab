// Package testutil provides test utilities and inline document fixtures.
//
// The package depends only on the YAML and JSON libraries so that tests in
// every pipeline package can import it without cycles.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// MinimalYAML is the smallest document that compiles without errors.
// It declares no component schemas, so it draws a components-present warning.
const MinimalYAML = `openapi: 3.0.3
info:
  title: Minimal API
  version: 1.0.0
paths: {}
`

// PetStoreYAML exercises every pipeline stage: entities with reciprocal and
// one-to-many relationships, conjunction, a recursive schema, path-level
// parameters, security, and several responses.
const PetStoreYAML = `openapi: 3.0.3
info:
  title: Pet Store
  version: 2.1.0
  description: A sample store.
servers:
  - url: https://api.example.com/v1
    description: production
tags:
  - name: pets
    description: Pet operations
  - name: owners
security:
  - apiKey: []
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      summary: List pets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            minimum: 1
            maximum: 100
      responses:
        '200':
          description: A list of pets
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
        default:
          description: unexpected error
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
    post:
      operationId: createPet
      tags: [pets]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/NewPet'
      responses:
        '201':
          description: Created
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
  /pets/{petId}:
    parameters:
      - $ref: '#/components/parameters/PetId'
    get:
      operationId: getPet
      tags: [pets]
      security: []
      responses:
        '200':
          description: A pet
          headers:
            X-Rate-Limit:
              schema:
                type: integer
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
        '404':
          description: Not found
    delete:
      tags: [pets]
      responses:
        '204':
          description: Deleted
components:
  securitySchemes:
    apiKey:
      type: apiKey
      in: header
      name: X-API-Key
  parameters:
    PetId:
      name: petId
      in: path
      required: true
      schema:
        type: string
        format: uuid
  schemas:
    Owner:
      type: object
      required: [id, name]
      properties:
        id:
          type: string
          format: uuid
        name:
          type: string
        pets:
          type: array
          items:
            $ref: '#/components/schemas/Pet'
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: string
          format: uuid
        name:
          type: string
          minLength: 1
        owner:
          $ref: '#/components/schemas/Owner'
        tags:
          type: array
          items:
            $ref: '#/components/schemas/Tag'
        status:
          type: string
          enum: [available, pending, sold]
    Tag:
      type: object
      properties:
        id:
          type: integer
        label:
          type: string
        pets:
          type: array
          items:
            $ref: '#/components/schemas/Pet'
    NewPet:
      allOf:
        - $ref: '#/components/schemas/PetBase'
        - type: object
          required: [name]
          properties:
            ownerId:
              type: string
    PetBase:
      type: object
      properties:
        name:
          type: string
    Category:
      type: object
      properties:
        name:
          type: string
        parent:
          $ref: '#/components/schemas/Category'
    Error:
      type: object
      required: [code, message]
      properties:
        code:
          type: integer
          format: int32
        message:
          type: string
`

// WriteTempFile writes content to a file named name inside a test-scoped
// temporary directory and returns its path.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// YAMLToJSON converts a YAML document to indented JSON, preserving key order.
func YAMLToJSON(t *testing.T, src string) string {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("invalid YAML fixture: %v", err)
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, doc.Content[0], 0); err != nil {
		t.Fatalf("failed to convert fixture: %v", err)
	}
	return buf.String()
}

func writeJSON(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	indent := strings.Repeat("  ", depth+1)
	closing := strings.Repeat("  ", depth)
	switch n.Kind {
	case yaml.AliasNode:
		return writeJSON(buf, n.Alias, depth)
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := gojson.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.WriteString(indent)
			buf.Write(key)
			buf.WriteString(": ")
			if err := writeJSON(buf, n.Content[i+1], depth+1); err != nil {
				return err
			}
			if i+2 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(closing + "}")
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range n.Content {
			buf.WriteString(indent)
			if err := writeJSON(buf, item, depth+1); err != nil {
				return err
			}
			if i+1 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(closing + "]")
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		out, err := gojson.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(out)
	}
	return nil
}
