package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/CRui5in/agentd/internal/config"
	"github.com/CRui5in/agentd/internal/deck"
	"github.com/CRui5in/agentd/internal/llm"
)

type fakeInvoker struct {
	response string
	err      error
	lastMsgs []llm.Message
}

func (f *fakeInvoker) Invoke(_ context.Context, msgs []llm.Message, _ llm.Options) (string, error) {
	f.lastMsgs = msgs
	return f.response, f.err
}

type fakeAssembler struct {
	source     string
	compileErr error
	pdfPath    string
}

func (f *fakeAssembler) ReadProjectSource(_, _ string) (string, error) {
	return f.source, nil
}

func (f *fakeAssembler) CompileText(_ context.Context, _, _ string, _ bool) (*deck.Result, error) {
	if f.compileErr != nil {
		return nil, f.compileErr
	}
	return &deck.Result{PDFPath: f.pdfPath}, nil
}

func (f *fakeAssembler) CompileProject(_ context.Context, _, _, _, _ string, _ bool) (*deck.Result, error) {
	if f.compileErr != nil {
		return nil, f.compileErr
	}
	return &deck.Result{PDFPath: f.pdfPath}, nil
}

func testDirectory(t *testing.T, serviceURL string) *Directory {
	t.Helper()
	services := map[string]config.ServiceConfig{}
	if serviceURL != "" {
		u, err := url.Parse(serviceURL)
		if err != nil {
			t.Fatalf("parse service url: %v", err)
		}
		port, _ := strconv.Atoi(u.Port())
		svc := config.ServiceConfig{Host: u.Hostname(), Port: port, Enabled: true}
		services["chart_generator"] = svc
		services["schedule_reminder"] = svc
		services["api_doc_generator"] = svc
	}
	return NewDirectory(services)
}

func TestDispatchUnsupportedToolType(t *testing.T) {
	r := NewRouter(&fakeInvoker{}, testDirectory(t, ""), &fakeAssembler{})
	_, err := r.Dispatch(context.Background(), "translator", nil)
	if !errors.Is(err, ErrUnsupportedToolType) {
		t.Fatalf("expected ErrUnsupportedToolType, got %v", err)
	}
}

func TestChartDataFlow(t *testing.T) {
	inv := &fakeInvoker{response: "```json\n{\"labels\": [\"Q1\"]}\n```"}
	r := NewRouter(inv, testDirectory(t, ""), &fakeAssembler{})

	result, err := r.Dispatch(context.Background(), "chart_data_generator", map[string]any{
		"user_requirement": "quarterly sales",
		"chart_type":       "bar",
		"title":            "Sales",
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result["generated_data"] != `{"labels": ["Q1"]}` {
		t.Fatalf("unexpected data: %v", result["generated_data"])
	}
	if result["chart_type"] != "bar" || result["user_requirement"] != "quarterly sales" {
		t.Fatalf("result mapping incomplete: %v", result)
	}
	if len(inv.lastMsgs) != 2 || inv.lastMsgs[0].Role != llm.RoleSystem {
		t.Fatal("expected system + user prompt messages")
	}
	prompt := inv.lastMsgs[1].Content
	if !strings.Contains(prompt, chartExamples["bar"]) {
		t.Errorf("prompt is missing the bar chart reference shape:\n%s", prompt)
	}
	if strings.Contains(prompt, "%!s(MISSING)") {
		t.Errorf("prompt has an unfilled template verb:\n%s", prompt)
	}
}

func TestChartDataRequiresRequirement(t *testing.T) {
	r := NewRouter(&fakeInvoker{}, testDirectory(t, ""), &fakeAssembler{})
	_, err := r.Dispatch(context.Background(), "chart_data_generator", map[string]any{})
	if err == nil {
		t.Fatal("expected error for empty requirement")
	}
}

func TestSlidesCompileFailureIsPartialSuccess(t *testing.T) {
	inv := &fakeInvoker{response: "```latex\n\\documentclass{beamer}\n```"}
	asm := &fakeAssembler{compileErr: fmt.Errorf("compile failed: missing package")}
	r := NewRouter(inv, testDirectory(t, ""), asm)

	result, err := r.Dispatch(context.Background(), "ppt", map[string]any{
		"content": "intro to Go",
		"title":   "Go",
	})
	if err != nil {
		t.Fatalf("compile failure must not fail the task: %v", err)
	}
	if result["latex_content"] != `\documentclass{beamer}` {
		t.Fatalf("markup missing from partial result: %v", result)
	}
	if !strings.Contains(result["pdf_compilation_error"].(string), "missing package") {
		t.Fatalf("compile error not recorded: %v", result)
	}
	if _, ok := result["pdf_path"]; ok {
		t.Fatal("partial result should not carry a pdf path")
	}
}

func TestSlidesSuccess(t *testing.T) {
	inv := &fakeInvoker{response: `\documentclass{beamer}`}
	asm := &fakeAssembler{pdfPath: "/output/deck.pdf"}
	r := NewRouter(inv, testDirectory(t, ""), asm)

	result, err := r.Dispatch(context.Background(), "ppt", map[string]any{"content": "x"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result["pdf_path"] != "/output/deck.pdf" {
		t.Fatalf("unexpected result: %v", result)
	}
}

func TestProjectConversionFlow(t *testing.T) {
	inv := &fakeInvoker{response: `\documentclass{beamer}`}
	asm := &fakeAssembler{source: `\documentclass{article}`, pdfPath: "/output/deck.pdf"}
	r := NewRouter(inv, testDirectory(t, ""), asm)

	result, err := r.Dispatch(context.Background(), "ppt", map[string]any{
		"input_type":         "latex_project",
		"uploaded_file_path": "/tmp/project.zip",
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result["conversion_type"] != "latex_to_beamer" {
		t.Fatalf("unexpected result: %v", result)
	}
	// The conversion prompt must carry the source and the image constraint.
	prompt := inv.lastMsgs[1].Content
	if !strings.Contains(prompt, `\documentclass{article}`) {
		t.Fatal("project source missing from prompt")
	}
	if !strings.Contains(prompt, "strictly forbidden") {
		t.Fatal("image constraint missing from prompt")
	}
}

func TestProjectConversionRequiresArchive(t *testing.T) {
	r := NewRouter(&fakeInvoker{}, testDirectory(t, ""), &fakeAssembler{})
	_, err := r.Dispatch(context.Background(), "ppt", map[string]any{
		"input_type": "latex_project",
	})
	if err == nil {
		t.Fatal("expected error without an archive path")
	}
}

func TestProxyDispatch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	r := NewRouter(&fakeInvoker{}, testDirectory(t, srv.URL), &fakeAssembler{})

	result, err := r.Dispatch(context.Background(), "scheduler", map[string]any{"when": "tomorrow"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if gotPath != "/create_schedule" {
		t.Fatalf("unexpected endpoint: %s", gotPath)
	}
	if result["success"] != true {
		t.Fatalf("unexpected result: %v", result)
	}
}

func TestProxyServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewRouter(&fakeInvoker{}, testDirectory(t, srv.URL), &fakeAssembler{})
	_, err := r.Dispatch(context.Background(), "chart", map[string]any{})
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
	if svcErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", svcErr.StatusCode)
	}
}

func TestProxyUnavailableService(t *testing.T) {
	r := NewRouter(&fakeInvoker{}, testDirectory(t, ""), &fakeAssembler{})
	_, err := r.Dispatch(context.Background(), "chart", map[string]any{})
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError for missing service, got %v", err)
	}
}
