package mcpserver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	tests := []struct {
		name          string
		offset, limit int
		want          []int
	}{
		{"first page", 0, 2, []int{1, 2}},
		{"middle page", 2, 2, []int{3, 4}},
		{"short last page", 4, 2, []int{5}},
		{"offset past end", 5, 2, nil},
		{"negative offset", -1, 2, nil},
		{"default limit", 0, 0, []int{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(items, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_MaxLimitCap(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.MaxLimit = 2 })
	assert.Equal(t, []int{1, 2}, paginate([]int{1, 2, 3}, 0, 50))
}

func TestSanitizeError(t *testing.T) {
	assert.Empty(t, sanitizeError(nil))
	got := sanitizeError(errors.New("loader: failed to read file: open /home/alice/specs/api.yaml: no such file"))
	assert.Equal(t, "loader: failed to read file: open <path>: no such file", got)
	assert.Equal(t, "relative/api.yaml missing", sanitizeError(errors.New("relative/api.yaml missing")))
}

func TestGroupAndSort(t *testing.T) {
	groups := groupAndSort([]string{"b", "a", "b", "c", "a", "b"}, func(s string) []string { return []string{s} })
	assert.Equal(t, []groupCount{{"b", 3}, {"a", 2}, {"c", 1}}, groups)
}

func TestValidateGroupBy(t *testing.T) {
	assert.NoError(t, validateGroupBy("", []string{"tag"}))
	assert.NoError(t, validateGroupBy("TAG", []string{"tag"}))
	assert.ErrorContains(t, validateGroupBy("path", []string{"tag", "method"}), `invalid group_by value "path"; valid values: tag, method`)
}

func TestGlobAndPathMatching(t *testing.T) {
	assert.NoError(t, validateGlobPattern("Pet*"))
	assert.Error(t, validateGlobPattern("Pet["))

	assert.True(t, matchGlob("", "Pet"))
	assert.True(t, matchGlob("pet", "Pet"))
	assert.True(t, matchGlob("Pet*", "PetBase"))
	assert.False(t, matchGlob("Pet*", "NewPet"))

	assert.True(t, matchPath("", "/pets"))
	assert.True(t, matchPath("/pets/*", "/pets/{petId}"))
	assert.False(t, matchPath("/pets/*", "/pets"))
	assert.False(t, matchPath("/owners/*", "/pets/{petId}"))
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[int](0))
	s := makeSlice[int](3)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}
