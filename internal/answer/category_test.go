// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferCategoryFromTag(t *testing.T) {
	tests := []struct {
		name    string
		rawText string
		want    string
	}{
		{
			name:    "top and subcategory",
			rawText: "He pioneered bebop. <Author, Fine Arts - Jazz>",
			want:    "Fine_Arts:Jazz",
		},
		{
			name:    "top level only",
			rawText: "Some question text <Editor, History>",
			want:    "History",
		},
		{
			name:    "tag anywhere in text",
			rawText: "<Writer, Science - Biology> This organism...",
			want:    "Science:Biology",
		},
		{
			name:    "spaces become underscores in subcategory",
			rawText: "text <Ed, Fine Arts - Visual Art>",
			want:    "Fine_Arts:Visual_Art",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCategory(tt.rawText, ""))
		})
	}
}

func TestInferCategoryKeywordFallback(t *testing.T) {
	tests := []struct {
		answer string
		want   string
	}{
		{"Battle of Hastings", "History"},
		{"sulfuric acid", "Science:Chemistry"},
		{"quantum mechanics", "Science:Physics"},
		{"Andromeda galaxy", "Science:Astronomy"},
		{"epic poem", "Fine_Arts:Literature"},
		{"opera singer", "Fine_Arts:Music"},
		{"oil painting", "Fine_Arts:Art"},
		{"Mississippi River", "Geography"},
		{"Hydrogen", "Misc"},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCategory("no tag here", tt.answer))
		})
	}
}

// First matching rule wins when an answer triggers several groups.
func TestInferCategoryRuleOrder(t *testing.T) {
	// "war" (History) appears before "energy" (Physics) in the rules.
	assert.Equal(t, "History", InferCategory("", "the war over energy"))
}

// The inferrer is total: any input, including empty, yields a category.
func TestInferCategoryTotal(t *testing.T) {
	assert.Equal(t, "Misc", InferCategory("", ""))
}
