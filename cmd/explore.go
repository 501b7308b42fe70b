package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var (
	exploreRoot     string
	exploreMaxDepth int
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Spawn the server and walk the tree looking for flag candidates",
	Long: `explore is the protocol-consumer side of ctfscope: it spawns "ctfscope serve"
as a subprocess, connects over stdio, discovers the available tools, and
walks the directory tree breadth-first. Files whose names look like flag
material are inspected with explain_file and, when textual, read with
get_file. It exists to exercise the server the way an agent harness would.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExplore()
	},
}

func init() {
	exploreCmd.Flags().StringVar(&exploreRoot, "root", "", "root directory for the spawned server (default: server's own default)")
	exploreCmd.Flags().IntVar(&exploreMaxDepth, "max-depth", 5, "maximum directory depth to walk")
	rootCmd.AddCommand(exploreCmd)
}

// listPayload mirrors the JSON the list_files tool renders.
type listPayload struct {
	Path    string `json:"path"`
	Count   int    `json:"count"`
	Entries []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"entries"`
}

// explainPayload mirrors the JSON the explain_file tool renders.
type explainPayload struct {
	Type   string `json:"type"`
	Size   int64  `json:"size"`
	IsText bool   `json:"is_text"`
}

// getPayload mirrors the JSON the get_file tool renders.
type getPayload struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

func runExplore() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating own executable: %w", err)
	}

	serverCmd := exec.Command(exe, "serve")
	serverCmd.Env = os.Environ()
	if exploreRoot != "" {
		serverCmd.Env = append(serverCmd.Env, "CTFSCOPE_ROOT="+exploreRoot)
	}

	client := mcpSdk.NewClient(&mcpSdk.Implementation{
		Name:    "ctfscope-explore",
		Version: Version,
	}, nil)

	session, err := client.Connect(ctx, &mcpSdk.CommandTransport{Command: serverCmd}, nil)
	if err != nil {
		return fmt.Errorf("connecting to server: %w", err)
	}
	defer func() { _ = session.Close() }()

	// Tool discovery first: the schema listing is the only way capabilities
	// become visible.
	toolList, err := session.ListTools(ctx, nil)
	if err != nil {
		return fmt.Errorf("discovering tools: %w", err)
	}
	fmt.Printf("discovered %d tools:\n", len(toolList.Tools))
	for _, tool := range toolList.Tools {
		fmt.Printf("  %-13s %s\n", tool.Name, firstSentence(tool.Description))
	}
	fmt.Println()

	return walk(ctx, session)
}

// walk performs a breadth-first traversal from the root boundary, printing
// each directory listing and reading any flag candidates it encounters.
func walk(ctx context.Context, session *mcpSdk.ClientSession) error {
	type dir struct {
		path  string
		depth int
	}
	queue := []dir{{path: "", depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		var listing listPayload
		if err := callTool(ctx, session, "list_files", map[string]any{"path": current.path}, &listing); err != nil {
			fmt.Printf("  ! %s: %v\n", displayPath(current.path), err)
			continue
		}

		fmt.Printf("%s (%d entries)\n", displayPath(current.path), listing.Count)
		for _, entry := range listing.Entries {
			fmt.Printf("  [%s] %s\n", entry.Type, entry.Name)

			child := entry.Name
			if current.path != "" {
				child = current.path + "/" + entry.Name
			}

			switch {
			case entry.Type == "directory" && current.depth < exploreMaxDepth:
				queue = append(queue, dir{path: child, depth: current.depth + 1})
			case entry.Type == "file" && isFlagCandidate(entry.Name):
				inspectCandidate(ctx, session, child)
			}
		}
	}
	return nil
}

// inspectCandidate explains a flag-looking file and prints its content when
// it is textual.
func inspectCandidate(ctx context.Context, session *mcpSdk.ClientSession, path string) {
	var meta explainPayload
	if err := callTool(ctx, session, "explain_file", map[string]any{"path": path}, &meta); err != nil {
		fmt.Printf("    ! explain %s: %v\n", path, err)
		return
	}
	if !meta.IsText {
		fmt.Printf("    candidate %s is binary (%d bytes), skipping\n", path, meta.Size)
		return
	}

	var file getPayload
	if err := callTool(ctx, session, "get_file", map[string]any{"path": path}, &file); err != nil {
		fmt.Printf("    ! read %s: %v\n", path, err)
		return
	}
	fmt.Printf("    candidate %s:\n      %s\n", path, strings.TrimSpace(file.Content))
}

// callTool invokes a tool and decodes its JSON text payload into out.
// Tool-level errors come back as Go errors carrying the "[CODE] message" text.
func callTool(ctx context.Context, session *mcpSdk.ClientSession, name string, args map[string]any, out any) error {
	result, err := session.CallTool(ctx, &mcpSdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return err
	}
	if len(result.Content) == 0 {
		return fmt.Errorf("%s returned no content", name)
	}
	text, ok := result.Content[0].(*mcpSdk.TextContent)
	if !ok {
		return fmt.Errorf("%s returned %T, want text content", name, result.Content[0])
	}
	if result.IsError {
		return fmt.Errorf("%s", text.Text)
	}
	if err := json.Unmarshal([]byte(text.Text), out); err != nil {
		return fmt.Errorf("decoding %s payload: %w", name, err)
	}
	return nil
}

// isFlagCandidate reports whether a file name looks like flag material worth
// reading: the classic CTF names plus encoded-text extensions.
func isFlagCandidate(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "flag") || strings.Contains(lower, "hint") {
		return true
	}
	return strings.HasSuffix(lower, ".b64")
}

// displayPath renders the root boundary as "." so the output has no empty
// path lines.
func displayPath(path string) string {
	if path == "" {
		return "."
	}
	return path
}

// firstSentence trims a tool description to its first sentence for the
// discovery summary.
func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i != -1 {
		return s[:i+1]
	}
	return s
}
