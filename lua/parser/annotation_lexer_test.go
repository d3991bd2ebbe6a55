package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAnnotationSubtokensParam(t *testing.T) {
	got := ParseAnnotationSubtokens("---@param value number")

	want := []AnnotationSubToken{
		{Kind: SubPrefix, Text: "---@"},
		{Kind: SubIdentifier, Parts: []string{"param"}},
		{Kind: SubIdentifier, Parts: []string{"value"}},
		{Kind: SubIdentifier, Parts: []string{"number"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sub-tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAnnotationSubtokensDottedIdentifier(t *testing.T) {
	got := ParseAnnotationSubtokens("---@module wezterm.gui")

	if len(got) != 3 {
		t.Fatalf("sub-token count = %d, want 3", len(got))
	}
	want := []string{"wezterm", "gui"}
	if diff := cmp.Diff(want, got[2].Parts); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
	if got[2].Name() != "wezterm.gui" {
		t.Errorf("Name() = %q, want %q", got[2].Name(), "wezterm.gui")
	}
}

func TestParseAnnotationSubtokensPunctuation(t *testing.T) {
	got := ParseAnnotationSubtokens("---@field opts table<string, number>")

	var punct []AnnotationSubTokenKind
	for _, sub := range got {
		switch sub.Kind {
		case SubLessThan, SubGreaterThan, SubComma, SubColon, SubOpenParen, SubCloseParen, SubOperator:
			punct = append(punct, sub.Kind)
		}
	}
	want := []AnnotationSubTokenKind{SubLessThan, SubComma, SubGreaterThan}
	if diff := cmp.Diff(want, punct); diff != "" {
		t.Errorf("punctuation mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAnnotationSubtokensFreeText(t *testing.T) {
	got := ParseAnnotationSubtokens(`---| '"left"' # The left side`)

	want := []AnnotationSubToken{
		{Kind: SubPrefix, Text: "---|"},
		{Kind: SubText, Text: `'"left"'`},
		{Kind: SubOperator, Text: "#"},
		{Kind: SubIdentifier, Parts: []string{"The"}},
		{Kind: SubIdentifier, Parts: []string{"left"}},
		{Kind: SubIdentifier, Parts: []string{"side"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sub-tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAnnotationSubtokensPipeIsOperator(t *testing.T) {
	got := ParseAnnotationSubtokens("---@type string|nil")

	var ops []string
	for _, sub := range got {
		if sub.Kind == SubOperator {
			ops = append(ops, sub.Text)
		}
	}
	if diff := cmp.Diff([]string{"|"}, ops); diff != "" {
		t.Errorf("operators mismatch (-want +got):\n%s", diff)
	}
}
