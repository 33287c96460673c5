// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two plain sentences",
			text: "This author wrote Moby-Dick. He also wrote Billy Budd.",
			want: []string{"This author wrote Moby-Dick.", "He also wrote Billy Budd."},
		},
		{
			name: "question and exclamation",
			text: "Who wrote this? Nobody knows! Ask again.",
			want: []string{"Who wrote this?", "Nobody knows!", "Ask again."},
		},
		{
			name: "domain separator becomes boundary",
			text: "First clue ||| Second clue. Third clue.",
			want: []string{"First clue.", "Second clue.", "Third clue."},
		},
		{
			name: "abbreviation does not split",
			text: "He earned a Ph.D. at Yale and taught with Dr. Smith. Name him.",
			want: []string{"He earned a Ph.D. at Yale and taught with Dr. Smith.", "Name him."},
		},
		{
			name: "ellipsis stays intact",
			text: "The poem trails off... and resumes later. Name it.",
			want: []string{"The poem trails off... and resumes later.", "Name it."},
		},
		{
			name: "line breaks become spaces",
			text: "First line.\nSecond line starts Here.",
			want: []string{"First line.", "Second line starts Here."},
		},
		{
			name: "no terminal punctuation",
			text: "a fragment with no ending",
			want: []string{"a fragment with no ending"},
		},
		{
			name: "split before quotation mark",
			text: `He shouted. "Begin," she said.`,
			want: []string{"He shouted.", `"Begin," she said.`},
		},
		{
			name: "lowercase continuation does not split",
			text: "He wrote vol. two of the series. done",
			want: []string{"He wrote vol. two of the series. done"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.text))
		})
	}
}

func TestSplitEmpty(t *testing.T) {
	assert.Nil(t, Split(""))
	assert.Nil(t, Split("   \n  "))
}

// Splitting an already-terminal sentence returns it unchanged, and
// re-splitting any output sentence is a fixed point.
func TestSplitIdempotent(t *testing.T) {
	single := "Name this element."
	assert.Equal(t, []string{single}, Split(single))

	text := "For ten points, name this whale. It was white. Mr. Ahab hunted it."
	for _, s := range Split(text) {
		assert.Equal(t, []string{s}, Split(s))
	}
}
