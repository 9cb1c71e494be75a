package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecipeJSON = `{
  "title": "Nut-Free Banana Bread",
  "servings": "8 servings",
  "prepTime": "15 minutes",
  "cookTime": "55 minutes",
  "ingredients": [
    { "amount": "3", "item": "ripe bananas" },
    { "amount": "1/2 cup", "item": "coconut oil" }
  ],
  "instructions": [
    "Step 1: Preheat the oven to 350F.",
    "Step 2: Mash the bananas."
  ],
  "substitutions": [
    { "original": "butter", "substitute": "coconut oil", "reason": "dairy-free alternative" }
  ],
  "allergenNote": "This recipe contains no nuts or dairy."
}`

func TestParseRecipe(t *testing.T) {
	t.Run("parses bare JSON", func(t *testing.T) {
		recipe, err := ParseRecipe(testRecipeJSON)
		require.NoError(t, err)
		assert.Equal(t, "Nut-Free Banana Bread", recipe.Title)
		assert.Len(t, recipe.Ingredients, 2)
		assert.Equal(t, "ripe bananas", recipe.Ingredients[0].Item)
		assert.Len(t, recipe.Instructions, 2)
		assert.Len(t, recipe.Substitutions, 1)
	})

	t.Run("strips tagged code fence", func(t *testing.T) {
		recipe, err := ParseRecipe("```json\n" + testRecipeJSON + "\n```")
		require.NoError(t, err)
		assert.Equal(t, "Nut-Free Banana Bread", recipe.Title)
	})

	t.Run("strips untagged code fence and whitespace", func(t *testing.T) {
		recipe, err := ParseRecipe("  ```\n" + testRecipeJSON + "\n```  \n")
		require.NoError(t, err)
		assert.Equal(t, "Nut-Free Banana Bread", recipe.Title)
	})

	t.Run("fence tag is case-insensitive", func(t *testing.T) {
		recipe, err := ParseRecipe("```JSON\n" + testRecipeJSON + "\n```")
		require.NoError(t, err)
		assert.Equal(t, "Nut-Free Banana Bread", recipe.Title)
	})

	t.Run("truncated JSON is malformed", func(t *testing.T) {
		_, err := ParseRecipe(testRecipeJSON[:len(testRecipeJSON)/2])
		assert.ErrorIs(t, err, ErrMalformedRecipe)
	})

	t.Run("prose is malformed", func(t *testing.T) {
		_, err := ParseRecipe("Sorry, I can't help with that.")
		assert.ErrorIs(t, err, ErrMalformedRecipe)
	})

	t.Run("empty input is malformed, not an empty recipe", func(t *testing.T) {
		_, err := ParseRecipe("")
		assert.ErrorIs(t, err, ErrMalformedRecipe)
	})

	t.Run("non-object JSON is malformed", func(t *testing.T) {
		_, err := ParseRecipe("null")
		assert.ErrorIs(t, err, ErrMalformedRecipe)

		_, err = ParseRecipe(`["not", "a", "recipe"]`)
		assert.ErrorIs(t, err, ErrMalformedRecipe)
	})
}
