package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Name Field[string] `json:"name"`
	Age  Field[int]    `json:"age"`
}

func TestFieldDistinguishesAbsentNullAndValue(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"age":null}`), &p))

	assert.False(t, p.Name.Set)
	assert.Nil(t, p.Name.Ptr())

	assert.True(t, p.Age.Set)
	assert.True(t, p.Age.Null)
	assert.False(t, p.Age.Present())

	p = patch{}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Jane","age":35}`), &p))
	assert.True(t, p.Name.Present())
	assert.Equal(t, "Jane", p.Name.Value)
	require.NotNil(t, p.Age.Ptr())
	assert.Equal(t, 35, *p.Age.Ptr())
}

func TestFieldTypeMismatch(t *testing.T) {
	var p patch
	err := json.Unmarshal([]byte(`{"age":"old"}`), &p)
	assert.Error(t, err)
}

func TestFieldMarshal(t *testing.T) {
	b, err := json.Marshal(patch{Name: Of("Jane"), Age: Null[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Jane","age":null}`, string(b))
}
