package tools

import "testing"

func TestExtractJSONTaggedFenceWins(t *testing.T) {
	response := "Some notes\n```\nnot the payload\n```\nand the data:\n```json\n{\"labels\": [1]}\n```\n"
	if got := ExtractJSON(response); got != `{"labels": [1]}` {
		t.Fatalf("tagged fence should win, got %q", got)
	}
}

func TestExtractJSONAnyFence(t *testing.T) {
	response := "Here you go:\n```\n{\"a\": 1}\n```"
	if got := ExtractJSON(response); got != `{"a": 1}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONBalancedObject(t *testing.T) {
	response := `The data is {"a": {"b": 2}} as requested.`
	if got := ExtractJSON(response); got != `{"a": {"b": 2}}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	response := `{"text": "open { only"} trailing`
	if got := ExtractJSON(response); got != `{"text": "open { only"}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONRawFallback(t *testing.T) {
	response := "  no structure here at all  "
	if got := ExtractJSON(response); got != "no structure here at all" {
		t.Fatalf("expected trimmed raw text, got %q", got)
	}
}

func TestExtractLaTeXTaggedFence(t *testing.T) {
	response := "```latex\n\\documentclass{beamer}\n```"
	if got := ExtractLaTeX(response); got != `\documentclass{beamer}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractLaTeXDocumentClassMarker(t *testing.T) {
	response := "Sure, here is the document:\n\\documentclass{beamer}\n\\begin{document}\\end{document}"
	got := ExtractLaTeX(response)
	if got != "\\documentclass{beamer}\n\\begin{document}\\end{document}" {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractLaTeXRawFallback(t *testing.T) {
	response := "  plain text answer  "
	if got := ExtractLaTeX(response); got != "plain text answer" {
		t.Fatalf("expected trimmed raw text, got %q", got)
	}
}
