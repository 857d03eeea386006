package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIngredient(t *testing.T) {
	good := Ingredient{ID: "a", Name: "Crater bun", Type: IngredientBun, Price: 10}
	assert.NoError(t, ValidateIngredient(&good))

	tests := map[string]func(*Ingredient){
		"missing id":     func(i *Ingredient) { i.ID = "" },
		"missing name":   func(i *Ingredient) { i.Name = "" },
		"unknown type":   func(i *Ingredient) { i.Type = "dessert" },
		"negative price": func(i *Ingredient) { i.Price = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			ing := good
			mutate(&ing)
			assert.Error(t, ValidateIngredient(&ing))
		})
	}
}

func TestIngredientWireFormat(t *testing.T) {
	raw := `{"_id":"643d","name":"Spicy-X sauce","type":"sauce","price":90,"image_mobile":"m.png"}`
	var ing Ingredient
	require.NoError(t, json.Unmarshal([]byte(raw), &ing))
	assert.Equal(t, "643d", ing.ID)
	assert.Equal(t, IngredientSauce, ing.Type)
	assert.Equal(t, "m.png", ing.ImageMobile)
	assert.False(t, ing.IsBun())
}

func TestAuthResponseIsFlat(t *testing.T) {
	raw := `{"success":true,"accessToken":"Bearer a","refreshToken":"r","user":{"email":"e","name":"n"}}`
	var resp AuthResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	assert.Equal(t, "Bearer a", resp.AccessToken)
	assert.Equal(t, "r", resp.RefreshToken)
	assert.Equal(t, User{Email: "e", Name: "n"}, resp.User)
}

func TestProfileUpdateOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(ProfileUpdate{Name: "Ann"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ann"}`, string(data))
}
