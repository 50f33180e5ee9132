package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nbrandt/linkstash/internal/logger"
	"github.com/nbrandt/linkstash/internal/model"
	"github.com/nbrandt/linkstash/internal/picker"
	"github.com/nbrandt/linkstash/internal/search"
	"github.com/nbrandt/linkstash/internal/storage"
	"github.com/nbrandt/linkstash/internal/store"
)

func main() {
	st, log := openStore()
	defer func() {
		st.Wait()
		_ = log.Sync()
	}()

	if len(os.Args) < 2 {
		runList(st)
		return
	}

	switch os.Args[1] {
	case "help", "--help", "-h":
		printHelp()
	case "list":
		runList(st)
	case "add":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: linkstash add <url> [title...]\n")
			os.Exit(1)
		}
		runAdd(st, os.Args[2], strings.Join(os.Args[3:], " "))
	case "search":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: linkstash search <query>\n")
			os.Exit(1)
		}
		runPick(st, strings.Join(os.Args[2:], " "), openURL)
	case "copy":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: linkstash copy <query>\n")
			os.Exit(1)
		}
		runPick(st, strings.Join(os.Args[2:], " "), copyURL)
	case "trash":
		requireID("trash")
		if !st.SoftDeleteBookmark(os.Args[2]) {
			fmt.Fprintf(os.Stderr, "No bookmark with id %s\n", os.Args[2])
			os.Exit(1)
		}
		fmt.Println("Moved to trash")
	case "restore":
		requireID("restore")
		if !st.RestoreBookmark(os.Args[2]) {
			fmt.Fprintf(os.Stderr, "No bookmark with id %s\n", os.Args[2])
			os.Exit(1)
		}
		fmt.Println("Restored")
	case "rm":
		requireID("rm")
		if st.HardDeleteBookmark(os.Args[2]) {
			fmt.Println("Deleted permanently")
		}
	case "empty-trash":
		removed := st.EmptyTrash()
		fmt.Printf("Removed %d bookmarks from trash\n", removed)
	case "folders":
		runFolders(st)
	default:
		// Treat as search query (join all remaining args)
		runPick(st, strings.Join(os.Args[1:], " "), openURL)
	}
}

// openStore wires config, logger, storage backend, and the engine. Storage
// problems are non-fatal: the engine falls back to memory-only and the
// reason lands in the log.
func openStore() (*store.Store, logger.Logger) {
	configPath, err := storage.DefaultConfigFilePath()
	var cfg *storage.Config
	if err == nil {
		cfg, err = storage.LoadConfig(configPath)
	}
	if err != nil || cfg == nil {
		defaults := storage.DefaultConfig()
		cfg = &defaults
	}
	log := logger.New(cfg.LogLevel, true)

	var kv storage.KV
	if cfg.StorePath != "" {
		kv, err = storage.OpenJSONFile(cfg.StorePath)
	} else {
		kv, err = storage.Open()
	}
	if err != nil {
		log.Warn("could not open storage, running in memory", logger.Error(err))
		kv = nil
	}

	st := store.New(store.Params{KV: kv, Log: log})
	st.Init()
	return st, log
}

func printHelp() {
	help := `linkstash - bookmark collection manager

Usage:
  linkstash                     List visible bookmarks
  linkstash <query>             Quick search -> select -> open
  linkstash add <url> [title]   Add a bookmark
  linkstash search <query>      Search -> select -> open in browser
  linkstash copy <query>        Search -> select -> copy URL to clipboard
  linkstash trash <id>          Move a bookmark to the trash
  linkstash restore <id>        Restore a bookmark from the trash
  linkstash rm <id>             Delete a bookmark permanently
  linkstash empty-trash         Permanently delete everything in the trash
  linkstash folders             List folders
  linkstash help                Show this help
`
	fmt.Print(help)
}

func requireID(cmd string) {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: linkstash %s <id>\n", cmd)
		os.Exit(1)
	}
}

// runList prints the filtered view: the persisted folder selection and
// search query apply here exactly as they would in the app.
func runList(st *store.Store) {
	bookmarks := st.FilteredBookmarks()
	if len(bookmarks) == 0 {
		fmt.Println("No bookmarks")
		return
	}
	for _, b := range bookmarks {
		fmt.Printf("%s  %s\n    %s\n", b.ID, b.Title, b.URL)
	}
}

func runAdd(st *store.Store, url, title string) {
	if title == "" {
		title = url
	}
	b := st.AddBookmark(model.NewBookmarkParams{Title: title, URL: url})
	fmt.Printf("Added %s (%s)\n", b.Title, b.ID)
}

func runFolders(st *store.Store) {
	for _, f := range st.Folders() {
		fmt.Printf("%s  %s\n", f.ID, f.Name)
	}
}

// runPick performs a fuzzy search, lets the user pick a result, and hands
// the chosen bookmark to act.
func runPick(st *store.Store, query string, act func(model.Bookmark)) {
	results := search.Suggest(st.Bookmarks(), query)

	if len(results) == 0 {
		fmt.Printf("No bookmarks found for '%s'\n", query)
		return
	}

	var chosen *model.Bookmark

	if len(results) == 1 {
		chosen = &results[0].Bookmark
	} else {
		p := picker.New(results, query)
		program := tea.NewProgram(p)
		finalModel, err := program.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			os.Exit(1)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			return
		}
		chosen = finalPicker.SelectedBookmark()
	}

	if chosen != nil {
		act(*chosen)
	}
}

func copyURL(b model.Bookmark) {
	if err := clipboard.WriteAll(b.URL); err != nil {
		fmt.Fprintf(os.Stderr, "Error copying to clipboard: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Copied %s\n", b.URL)
}

// openURL opens a URL in the default browser.
func openURL(b model.Bookmark) {
	fmt.Printf("Opening: %s\n", b.Title)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", b.URL)
	case "linux":
		cmd = exec.Command("xdg-open", b.URL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", b.URL)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}
