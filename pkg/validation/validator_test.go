package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	Age      *int   `json:"age" validate:"omitnil,min=0"`
}

func TestToFieldErrorsUsesJSONNames(t *testing.T) {
	age := -5
	err := New().Struct(signup{Name: "", Email: "not-an-email", Password: "password123", Age: &age})
	require.Error(t, err)

	fe := ToFieldErrors(err)
	assert.Len(t, fe, 3)
	assert.Equal(t, []string{"is required"}, fe["name"])
	assert.Equal(t, []string{"must be a valid email"}, fe["email"])
	assert.Equal(t, []string{"must be at least 0"}, fe["age"])
}

func TestPasswordAlias(t *testing.T) {
	err := New().Struct(signup{Name: "A", Email: "a@b.co", Password: "123"})
	fe := ToFieldErrors(err)
	assert.Equal(t, []string{"must be at least 6 characters long"}, fe["password"])
}

func TestVarErrorsTakeFieldName(t *testing.T) {
	err := New().Var("", "required")
	fe := ToFieldErrors(err, "email")
	assert.Equal(t, []string{"is required"}, fe["email"])
}

func TestDecodeErrors(t *testing.T) {
	var dst signup
	err := json.Unmarshal([]byte(`{"age":"ten"}`), &dst)
	fe := ToFieldErrors(err)
	assert.Equal(t, []string{"must be of type integer"}, fe["age"])

	err = json.Unmarshal([]byte(`{"age":`), &dst)
	fe = ToFieldErrors(err)
	assert.Contains(t, fe, "payload")
}

func TestFieldErrorsMerge(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("email", "is required")
	fe.Merge(FieldErrors{"email": {"has already been taken"}, "age": {"must be at least 0"}})

	assert.True(t, fe.Has("age"))
	assert.Equal(t, []string{"is required", "has already been taken"}, fe["email"])
	assert.False(t, fe.Empty())
}

func TestDecodeJSONCollectsEveryTypeError(t *testing.T) {
	var dst signup
	fe, err := DecodeJSON([]byte(`{"name":7,"email":"a@b.co","age":"ten"}`), &dst)
	require.NoError(t, err)
	assert.Equal(t, FieldErrors{
		"name": {"must be of type string"},
		"age":  {"must be of type integer"},
	}, fe)
	assert.Equal(t, "a@b.co", dst.Email)
	assert.Nil(t, dst.Age)
}

func TestDecodeJSONPayloadErrors(t *testing.T) {
	var dst signup
	_, err := DecodeJSON(nil, &dst)
	assert.Equal(t, []string{"request body is required"}, ToFieldErrors(err)["payload"])

	_, err = DecodeJSON([]byte(`{"name":`), &dst)
	assert.Equal(t, []string{"invalid json"}, ToFieldErrors(err)["payload"])

	_, err = DecodeJSON([]byte(`[1,2]`), &dst)
	assert.Equal(t, []string{"must be of type object"}, ToFieldErrors(err)["payload"])
}

func TestOverrideReplacesMessages(t *testing.T) {
	fe := FieldErrors{"name": {"is required"}, "email": {"must be a valid email"}}
	fe.Override(FieldErrors{"name": {"must be of type string"}})
	assert.Equal(t, []string{"must be of type string"}, fe["name"])
	assert.Equal(t, []string{"must be a valid email"}, fe["email"])
}
