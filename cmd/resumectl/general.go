package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"resume-engine/internal/extract"
)

// readJSON decodes path into v.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to decode %s", path)
	}
	return nil
}

// readText extracts plain text from a txt, html, pdf or docx file. "-" reads stdin.
func readText(ctx context.Context, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}
		return extract.FromBytes(ctx, data, extract.MimePlain, "stdin")
	}
	text, err := extract.FromFile(ctx, path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to extract text from %s", path)
	}
	return text, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func cleanJobText(text string) string {
	if extract.LooksLikeHTML(text) {
		return extract.HTMLToText(text)
	}
	return strings.TrimSpace(text)
}
