package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlias(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Alias
		wantErr bool
	}{
		{name: "simple", input: "mainContent", want: "mainContent"},
		{name: "normalizes leading case", input: "MainContent", want: "mainContent"},
		{name: "digits allowed after first rune", input: "heading2", want: "heading2"},
		{name: "empty", input: "", wantErr: true},
		{name: "starts with digit", input: "2heading", wantErr: true},
		{name: "contains space", input: "main content", wantErr: true},
		{name: "contains punctuation", input: "main-content", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAlias(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMustAliasPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustAlias("") })
	assert.NotPanics(t, func() { MustAlias("articlePage") })
}

func TestDeriveAlias(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Alias
		wantErr bool
	}{
		{name: "single word", input: "Content", want: "content"},
		{name: "two words", input: "Main Content", want: "mainContent"},
		{name: "hyphenated", input: "page-title", want: "pageTitle"},
		{name: "underscored", input: "meta_description", want: "metaDescription"},
		{name: "already camel", input: "footerText", want: "footerText"},
		{name: "nothing usable", input: "!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveAlias(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
