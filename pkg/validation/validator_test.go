package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required,pwd"`
	Category string `json:"category" binding:"omitempty,category"`
	Value    int    `json:"value" binding:"gte=1,lte=5"`
}

func TestToDetails_ValidationErrors(t *testing.T) {
	v := New()
	err := v.Struct(signup{Name: "A", Password: "abcdef", Category: "soup", Value: 9})
	require.Error(t, err)

	d := ToDetails(err)
	assert.Equal(t, "must be at least 2 characters long", d["name"])
	assert.Equal(t, "must be at least 6 characters with a number and an uppercase letter", d["password"])
	assert.Equal(t, "must be one of: starter, main, dessert", d["category"])
	assert.Equal(t, "must be less than or equal to 5", d["value"])
}

func TestPasswordAlias(t *testing.T) {
	v := New()
	assert.NoError(t, v.Var("Secret1", "pwd"))
	assert.Error(t, v.Var("Sec1", "pwd"))
	assert.Error(t, v.Var("secret1", "pwd"))
	assert.Error(t, v.Var("Secrets", "pwd"))
}

func TestToDetails_JSONErrors(t *testing.T) {
	var dst struct {
		Value int `json:"value"`
	}
	err := json.Unmarshal([]byte(`{"value": 4.5}`), &dst)
	assert.Equal(t, map[string]string{"value": "must be a int"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{`), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	assert.Nil(t, ToDetails(nil))
}
