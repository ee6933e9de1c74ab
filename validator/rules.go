package validator

import (
	"fmt"
	"regexp"

	"github.com/erraggy/oasir/ir"
)

// Rule ids, in evaluation order.
const (
	RuleSchemaReferenceOrphan    = "schema-reference-orphan"
	RuleResponseSchemaOrphan     = "response-schema-orphan"
	RuleRequiredPropertyDeclared = "required-property-declared"
	RuleEntityEmpty              = "entity-empty"
	RuleOperationNoResponses     = "operation-no-responses"
	RuleOperationIDUnique        = "operation-id-unique"
	RuleSecuritySchemeDeclared   = "security-scheme-declared"
	RuleComponentsPresent        = "components-present"
	RuleDuplicateKey             = "duplicate-key"
)

// RuleInfo describes one rule.
type RuleInfo struct {
	ID          string   `json:"id" yaml:"id"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Description string   `json:"description" yaml:"description"`
}

type emitFunc func(loc ir.Location, msg string)

type rule struct {
	RuleInfo
	check func(m *ir.Model, emit emitFunc)
}

var rules = []rule{
	{RuleInfo{RuleSchemaReferenceOrphan, SeverityError, "schema references resolve to schemas in the arena"}, checkSchemaReferences},
	{RuleInfo{RuleResponseSchemaOrphan, SeverityError, "operation schemas resolve to schemas in the arena"}, checkOperationSchemas},
	{RuleInfo{RuleRequiredPropertyDeclared, SeverityError, "required names are declared properties"}, checkRequired},
	{RuleInfo{RuleEntityEmpty, SeverityWarning, "object entities declare properties"}, checkEmptyEntities},
	{RuleInfo{RuleOperationNoResponses, SeverityWarning, "operations declare responses"}, checkResponses},
	{RuleInfo{RuleOperationIDUnique, SeverityError, "operationIds are unique"}, checkOperationIDs},
	{RuleInfo{RuleSecuritySchemeDeclared, SeverityError, "security requirements name declared schemes"}, checkSecuritySchemes},
	{RuleInfo{RuleComponentsPresent, SeverityWarning, "the document declares component schemas"}, checkComponents},
	{RuleInfo{RuleDuplicateKey, SeverityWarning, "mapping keys are defined once"}, checkDuplicateKeys},
}

// Rules returns the rule set in evaluation order.
func Rules() []RuleInfo {
	out := make([]RuleInfo, len(rules))
	for i, r := range rules {
		out[i] = r.RuleInfo
	}
	return out
}

func checkSchemaReferences(m *ir.Model, emit emitFunc) {
	if m.Schemas == nil {
		return
	}
	ref := func(s *ir.Schema, what, id string) {
		if id != "" && !m.Schemas.Has(id) {
			emit(s.Location, fmt.Sprintf("%s references unknown schema %s", what, id))
		}
	}
	for _, s := range m.Schemas.All() {
		for _, p := range s.Properties {
			ref(s, fmt.Sprintf("property %q", p.Name), p.Schema)
		}
		ref(s, "items", s.Items)
		ref(s, "additionalProperties", s.AdditionalProperties)
		for i, id := range s.Members {
			ref(s, fmt.Sprintf("member %d", i), id)
		}
		if s.IsPlaceholder() {
			ref(s, "placeholder", s.Target)
		}
	}
}

func checkOperationSchemas(m *ir.Model, emit emitFunc) {
	has := func(id string) bool {
		return id == "" || (m.Schemas != nil && m.Schemas.Has(id))
	}
	for _, op := range m.Operations {
		for _, p := range op.Parameters() {
			if !has(p.Schema) {
				emit(p.Location, fmt.Sprintf("%s %s: parameter %q references unknown schema %s", op.Method, op.Path, p.Name, p.Schema))
			}
		}
		if op.RequestBody != nil {
			for _, mt := range op.RequestBody.Content {
				if !has(mt.Schema) {
					emit(op.RequestBody.Location, fmt.Sprintf("%s %s: request body %s references unknown schema %s", op.Method, op.Path, mt.ContentType, mt.Schema))
				}
			}
		}
		for _, r := range op.Responses {
			for _, mt := range r.Content {
				if !has(mt.Schema) {
					emit(r.Location, fmt.Sprintf("%s %s: response %s %s references unknown schema %s", op.Method, op.Path, r.StatusCode, mt.ContentType, mt.Schema))
				}
			}
			for _, h := range r.Headers {
				if !has(h.Schema) {
					emit(r.Location, fmt.Sprintf("%s %s: response %s header %q references unknown schema %s", op.Method, op.Path, r.StatusCode, h.Name, h.Schema))
				}
			}
		}
	}
}

// allOfMember matches the id of a schema that only exists as a conjunction
// branch; the merged schema is checked instead.
var allOfMember = regexp.MustCompile(`/allOf/\d+$`)

func checkRequired(m *ir.Model, emit emitFunc) {
	if m.Schemas == nil {
		return
	}
	for _, s := range m.Schemas.All() {
		if s.Kind != ir.KindObject || allOfMember.MatchString(s.ID) {
			continue
		}
		for _, name := range s.Required {
			if _, ok := s.Property(name); !ok {
				emit(s.Location, fmt.Sprintf("required property %q is not declared", name))
			}
		}
	}
}

func checkEmptyEntities(m *ir.Model, emit emitFunc) {
	if m.Schemas == nil {
		return
	}
	for _, e := range m.Entities {
		s, ok := m.Schemas.Get(e.Schema)
		if ok && s.Kind == ir.KindObject && len(s.Properties) == 0 {
			emit(s.Location, fmt.Sprintf("entity %q declares no properties", e.Name))
		}
	}
}

func checkResponses(m *ir.Model, emit emitFunc) {
	for _, op := range m.Operations {
		if len(op.Responses) == 0 {
			emit(op.Location, fmt.Sprintf("%s %s declares no responses", op.Method, op.Path))
		}
	}
}

func checkOperationIDs(m *ir.Model, emit emitFunc) {
	seen := make(map[string]ir.Operation)
	for _, op := range m.Operations {
		if op.OperationID == "" {
			continue
		}
		if first, dup := seen[op.OperationID]; dup {
			emit(op.Location, fmt.Sprintf("operationId %q is already used by %s %s", op.OperationID, first.Method, first.Path))
			continue
		}
		seen[op.OperationID] = op
	}
}

func checkSecuritySchemes(m *ir.Model, emit emitFunc) {
	for _, op := range m.Operations {
		for _, req := range op.Security {
			for _, scope := range req.Schemes {
				if _, ok := m.SecurityScheme(scope.Scheme); !ok {
					emit(op.Location, fmt.Sprintf("%s %s requires undeclared security scheme %q", op.Method, op.Path, scope.Scheme))
				}
			}
		}
	}
}

func checkComponents(m *ir.Model, emit emitFunc) {
	if len(m.Entities) == 0 {
		emit(ir.Location{Pointer: "#/components"}, "document declares no component schemas")
	}
}

func checkDuplicateKeys(m *ir.Model, emit emitFunc) {
	for _, d := range m.DuplicateKeys {
		emit(d.Location, fmt.Sprintf("mapping key %q is defined more than once, the last value is used", d.Key))
	}
}
