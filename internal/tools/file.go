// Package tools implements the read-only filesystem operations exposed over
// MCP. Every operation validates its path through the security boundary
// before touching the filesystem and reports failures as structured Results
// with stable error codes.
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/koopa0/ctfscope/internal/log"
	"github.com/koopa0/ctfscope/internal/security"
)

// Entry type constants for ListFiles results.
const (
	entryTypeFile      = "file"
	entryTypeDirectory = "directory"
	entryTypeOther     = "other"
)

// MaxGetFileBytes is the maximum content size returned by GetFile. Larger
// files are truncated with an explicit trailer so the agent knows content
// is missing.
const MaxGetFileBytes = 50_000

// sniffLen is how much of a file is inspected for the text/binary and MIME
// heuristics.
const sniffLen = 8 * 1024

// ListFilesInput defines input for the list_files tool.
// Path is optional: omitting it lists the exploration root.
type ListFilesInput struct {
	Path string `json:"path,omitempty" jsonschema:"Directory path to list, relative to the exploration root. Empty lists the root itself."`
}

// ExplainFileInput defines input for the explain_file tool.
// Path is optional: omitting it describes the exploration root.
type ExplainFileInput struct {
	Path string `json:"path,omitempty" jsonschema:"File or directory path to inspect, relative to the exploration root."`
}

// GetFileInput defines input for the get_file tool.
type GetFileInput struct {
	Path string `json:"path" jsonschema:"Text file path to read, relative to the exploration root."`
}

// FileTools provides the scoped filesystem operations: listing directories,
// inspecting metadata, and reading text files. All operations are read-only.
type FileTools struct {
	boundary *security.Path
	logger   log.Logger
}

// NewFileTools creates a new FileTools bound to the given path validator.
func NewFileTools(boundary *security.Path, logger log.Logger) (*FileTools, error) {
	if boundary == nil {
		return nil, fmt.Errorf("path validator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &FileTools{
		boundary: boundary,
		logger:   logger,
	}, nil
}

// Root returns the canonical root boundary the tools operate under.
func (ft *FileTools) Root() string {
	return ft.boundary.Root()
}

// ListFiles lists the immediate children of a directory inside the boundary.
// Entries are sorted lexicographically by name (byte order) so repeated calls
// and different platforms produce identical output.
func (ft *FileTools) ListFiles(_ context.Context, input ListFilesInput) (Result, error) {
	ft.logger.Info("ListFiles called", "path", input.Path)

	safePath, res, ok := ft.validate(input.Path)
	if !ok {
		return res, nil
	}

	info, err := os.Stat(safePath)
	if err != nil {
		return errorResult(ErrCodeIO, fmt.Sprintf("unable to stat path: %v", err)), nil
	}
	if !info.IsDir() {
		return errorResult(ErrCodeNotADirectory,
			fmt.Sprintf("path is not a directory: %s", input.Path)), nil
	}

	dirEntries, err := os.ReadDir(safePath)
	if err != nil {
		return errorResult(ErrCodeIO, fmt.Sprintf("unable to read directory: %v", err)), nil
	}

	// os.ReadDir already sorts, but the ordering guarantee is part of the
	// tool contract, so enforce it here rather than rely on the stdlib.
	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	entries := make([]map[string]any, 0, len(dirEntries))
	for _, entry := range dirEntries {
		entries = append(entries, map[string]any{
			"name": entry.Name(),
			"type": entryType(entry.Type()),
		})
	}

	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Listed %d entries", len(entries)),
		Data: map[string]any{
			"path":    safePath,
			"entries": entries,
			"count":   len(entries),
		},
	}, nil
}

// ExplainFile reports metadata about a file or directory: kind, size, MIME
// type, text/binary classification, modification time, owner permissions,
// and for directories the number of immediate children. Agents use it to
// decide whether a file is worth reading before calling get_file.
func (ft *FileTools) ExplainFile(_ context.Context, input ExplainFileInput) (Result, error) {
	ft.logger.Info("ExplainFile called", "path", input.Path)

	safePath, res, ok := ft.validate(input.Path)
	if !ok {
		return res, nil
	}

	info, err := os.Stat(safePath)
	if err != nil {
		return errorResult(ErrCodeIO, fmt.Sprintf("unable to stat path: %v", err)), nil
	}

	mode := info.Mode()
	data := map[string]any{
		"path":          safePath,
		"type":          entryType(mode.Type()),
		"size":          info.Size(),
		"mime_type":     "",
		"is_text":       false,
		"is_binary":     false,
		"last_modified": info.ModTime().Format("2006-01-02 15:04:05"),
		"permissions": map[string]any{
			"readable":   mode.Perm()&0o400 != 0,
			"writable":   mode.Perm()&0o200 != 0,
			"executable": mode.Perm()&0o100 != 0,
			"mode":       mode.String(),
		},
	}

	switch {
	case mode.IsDir():
		children, err := os.ReadDir(safePath)
		if err != nil {
			return errorResult(ErrCodeIO, fmt.Sprintf("unable to read directory: %v", err)), nil
		}
		data["item_count"] = len(children)

	case mode.IsRegular():
		head, err := readHead(safePath)
		if err != nil {
			return errorResult(ErrCodeIO, fmt.Sprintf("unable to read file: %v", err)), nil
		}
		isText := isTextContent(head)
		data["is_text"] = isText
		data["is_binary"] = !isText
		data["mime_type"] = detectMimeType(safePath, head)
	}

	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Inspected %s", input.Path),
		Data:    data,
	}, nil
}

// GetFile reads the content of a text file inside the boundary. Binary files
// are rejected rather than returned, and content larger than MaxGetFileBytes
// is cut off with an explicit truncation trailer.
func (ft *FileTools) GetFile(_ context.Context, input GetFileInput) (Result, error) {
	ft.logger.Info("GetFile called", "path", input.Path)

	safePath, res, ok := ft.validate(input.Path)
	if !ok {
		return res, nil
	}

	info, err := os.Stat(safePath)
	if err != nil {
		return errorResult(ErrCodeIO, fmt.Sprintf("unable to stat path: %v", err)), nil
	}
	if !info.Mode().IsRegular() {
		return errorResult(ErrCodeNotAFile,
			fmt.Sprintf("path is not a file: %s", input.Path)), nil
	}

	file, err := os.Open(safePath) // #nosec G304 - path validated by the boundary above
	if err != nil {
		return errorResult(ErrCodeIO, fmt.Sprintf("unable to open file: %v", err)), nil
	}
	defer func() { _ = file.Close() }()

	// Read one byte past the limit so truncation is detected without
	// trusting the stat size, which can change between calls.
	content, err := io.ReadAll(io.LimitReader(file, MaxGetFileBytes+1))
	if err != nil {
		return errorResult(ErrCodeIO, fmt.Sprintf("unable to read file: %v", err)), nil
	}

	head := content
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if !isTextContent(head) {
		return errorResult(ErrCodeBinaryFile,
			fmt.Sprintf("file appears to be binary: %s (use explain_file to inspect it)", input.Path)), nil
	}

	truncated := len(content) > MaxGetFileBytes
	size := int64(len(content))
	text := string(content)
	if truncated {
		// Count the remainder so the trailer reflects what was actually on
		// disk at read time, not the earlier stat.
		rest, err := io.Copy(io.Discard, file)
		if err != nil {
			return errorResult(ErrCodeIO, fmt.Sprintf("unable to read file: %v", err)), nil
		}
		size += rest
		text = string(content[:MaxGetFileBytes])
		text += fmt.Sprintf(
			"\n\n[TRUNCATED: file is %d bytes, showing first %d bytes, %d bytes were truncated]",
			size, MaxGetFileBytes, size-MaxGetFileBytes)
	}

	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Read %s", input.Path),
		Data: map[string]any{
			"path":      safePath,
			"content":   text,
			"size":      size,
			"truncated": truncated,
		},
	}, nil
}

// validate runs the path through the security boundary and converts guard
// failures into error Results. The third return value reports success.
func (ft *FileTools) validate(path string) (string, Result, bool) {
	safePath, err := ft.boundary.Validate(path)
	if err == nil {
		return safePath, Result{}, true
	}

	switch {
	case errors.Is(err, security.ErrPathEscape):
		// The guard's message is already sanitized; pass it through as-is.
		return "", errorResult(ErrCodePathEscape, err.Error()), false
	case errors.Is(err, security.ErrNotFound):
		return "", errorResult(ErrCodeNotFound, err.Error()), false
	default:
		return "", errorResult(ErrCodeIO, fmt.Sprintf("path validation failed: %v", err)), false
	}
}

// entryType maps a file mode to the entry kind reported to agents.
// Anything that is neither a directory nor a regular file (sockets, devices,
// symlinks surviving in listings) is reported as "other" instead of failing.
func entryType(mode os.FileMode) string {
	switch {
	case mode.IsDir():
		return entryTypeDirectory
	case mode.IsRegular():
		return entryTypeFile
	default:
		return entryTypeOther
	}
}

// readHead reads up to sniffLen bytes from the start of a file.
func readHead(path string) ([]byte, error) {
	file, err := os.Open(path) // #nosec G304 - path validated by the boundary
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	head, err := io.ReadAll(io.LimitReader(file, sniffLen))
	if err != nil {
		return nil, err
	}
	return head, nil
}

// isTextContent reports whether the sampled bytes look like text: no null
// bytes and valid UTF-8 (allowing for a rune split at the sample edge).
func isTextContent(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if bytes.IndexByte(data, 0) != -1 {
		return false
	}
	// The sample may end mid-rune; drop up to three trailing bytes before
	// declaring the content invalid.
	for i := 0; i < 3 && len(data) > 0 && !utf8.Valid(data); i++ {
		data = data[:len(data)-1]
	}
	return utf8.Valid(data)
}

// detectMimeType resolves a MIME type from the file extension, falling back
// to content sniffing when the extension is unknown.
func detectMimeType(path string, head []byte) string {
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		return mt
	}
	if len(head) > 0 {
		return http.DetectContentType(head)
	}
	return ""
}
