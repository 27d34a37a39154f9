// Package deck merges LLM-authored presentation markup with resource
// bundles and drives the downstream compiler service. A failed compile is a
// reportable partial outcome, never a reason to discard the markup.
package deck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Result is the compiler service's reply for a successful run.
type Result struct {
	PDFPath string
	Raw     map[string]any
}

// Assembler prepares archives and talks to the document compiler service.
type Assembler struct {
	baseURL  string
	styleDir string

	// Text compiles are slow (full LaTeX toolchain run); project rebuilds
	// get a shorter budget matching the upstream service's own limit.
	textClient    *http.Client
	projectClient *http.Client
}

// NewAssembler creates an assembler against the compiler service base URL.
// styleDir points at the local style-resource bundles; it may not exist.
func NewAssembler(baseURL, styleDir string) *Assembler {
	return &Assembler{
		baseURL:       strings.TrimRight(baseURL, "/"),
		styleDir:      styleDir,
		textClient:    &http.Client{Timeout: 10 * time.Minute},
		projectClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// ReadProjectSource extracts the archive to a scratch directory and returns
// the text of the primary source file. The file is looked up first at its
// declared relative path, then by base name anywhere in the tree.
func (a *Assembler) ReadProjectSource(archivePath, mainFile string) (string, error) {
	scratch, err := os.MkdirTemp("", "deck-extract-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(scratch)

	if err := extractArchive(archivePath, scratch); err != nil {
		return "", err
	}

	candidate := filepath.Join(scratch, filepath.FromSlash(mainFile))
	if _, err := os.Stat(candidate); err != nil {
		candidate = ""
		base := filepath.Base(mainFile)
		_ = filepath.WalkDir(scratch, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if filepath.Base(path) == base {
				candidate = path
				return filepath.SkipAll
			}
			return nil
		})
		if candidate == "" {
			return "", fmt.Errorf("primary source file %s not found in archive", mainFile)
		}
	}

	data, err := os.ReadFile(candidate)
	if err != nil {
		return "", err
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("primary source file %s is empty", mainFile)
	}
	return text, nil
}

// CompileText submits free-standing markup to the compiler. When useStyle is
// set and the style bundle is present locally, the markup is wrapped in an
// archive together with the style resources and sent through the project
// route instead; a missing bundle degrades to the plain route.
func (a *Assembler) CompileText(ctx context.Context, markup, title string, useStyle bool) (*Result, error) {
	if useStyle {
		resources, err := a.styleResources()
		if err != nil || len(resources) == 0 {
			slog.Warn("style resources unavailable, compiling without style", "error", err)
		} else {
			entries := map[string][]byte{"main.tex": []byte(markup)}
			for name, data := range resources {
				entries["images/"+name] = data
			}
			var buf bytes.Buffer
			if err := buildArchive(&buf, entries, "", nil); err != nil {
				return nil, fmt.Errorf("build style archive: %w", err)
			}
			return a.postProject(ctx, a.textClient, buf.Bytes(), markup, title, "main.tex")
		}
	}

	body, err := json.Marshal(map[string]string{
		"latex_content": markup,
		"title":         title,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/generate_ppt", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.textClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("compiler service unreachable: %w", err)
	}
	defer resp.Body.Close()
	return decodeResult(resp)
}

// CompileProject rebuilds the project archive around the authored markup and
// submits it for compilation. The markup becomes main.tex; every original
// file except the old primary source is carried over unchanged; style
// resources are injected when useStyle is set.
func (a *Assembler) CompileProject(ctx context.Context, archivePath, markup, title, mainFile string, useStyle bool) (*Result, error) {
	scratch, err := os.MkdirTemp("", "deck-rebuild-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(scratch)

	if err := extractArchive(archivePath, scratch); err != nil {
		return nil, err
	}

	entries := map[string][]byte{"main.tex": []byte(markup)}
	if useStyle {
		resources, err := a.styleResources()
		if err != nil {
			slog.Warn("style resources unavailable, rebuilding without style", "error", err)
		}
		for name, data := range resources {
			entries["images/"+name] = data
		}
	}

	oldMain := filepath.ToSlash(mainFile)
	var buf bytes.Buffer
	err = buildArchive(&buf, entries, scratch, func(rel string) bool {
		return rel == oldMain
	})
	if err != nil {
		return nil, fmt.Errorf("rebuild archive: %w", err)
	}

	return a.postProject(ctx, a.projectClient, buf.Bytes(), markup, title, "main.tex")
}

func (a *Assembler) postProject(ctx context.Context, client *http.Client, archive []byte, markup, title, mainFile string) (*Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("archive_file", "project.zip")
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(archive); err != nil {
		return nil, err
	}
	for field, value := range map[string]string{
		"beamer_content":    markup,
		"title":             title,
		"main_tex_filename": mainFile,
	} {
		if err := mw.WriteField(field, value); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/generate_beamer_from_project", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("compiler service unreachable: %w", err)
	}
	defer resp.Body.Close()
	return decodeResult(resp)
}

func decodeResult(resp *http.Response) (*Result, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("compiler service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode compiler response: %w", err)
	}
	if ok, found := raw["success"].(bool); found && !ok {
		msg, _ := raw["error"].(string)
		if msg == "" {
			msg = "unknown compiler error"
		}
		return nil, fmt.Errorf("compile failed: %s", msg)
	}

	res := &Result{Raw: raw}
	if p, ok := raw["pdf_path"].(string); ok {
		res.PDFPath = p
	}
	return res, nil
}

// styleResources loads the style bundle images from the local style
// directory, keyed by file name.
func (a *Assembler) styleResources() (map[string][]byte, error) {
	dir := filepath.Join(a.styleDir, "images")
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	resources := make(map[string][]byte)
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(item.Name())) {
		case ".png", ".jpg", ".jpeg":
		default:
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, item.Name()))
		if err != nil {
			return nil, err
		}
		resources[item.Name()] = data
	}
	return resources, nil
}
