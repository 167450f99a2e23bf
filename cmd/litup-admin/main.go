// Package main is the entry point for the Lit Up admin CLI.
// It generates playlist configs from a YAML track list and manages the
// parameter-store values the edge function reads.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prn-tf/litup/internal/config"
	"github.com/prn-tf/litup/internal/domain"
	"github.com/prn-tf/litup/internal/paramstore"
	"github.com/prn-tf/litup/internal/pkg/crypto"
	"github.com/prn-tf/litup/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "generate-config":
		err = runGenerateConfig(args)

	case "put-params":
		err = runPutParams(args)

	case "get-params":
		err = runGetParams(args)

	case "version":
		fmt.Printf("Lit Up Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// generate-config
// =============================================================================

// songsFile is the YAML shape the playlist is authored in.
type songsFile struct {
	HeaderMessage string `yaml:"header_message"`
	Songs         []struct {
		ID       string `yaml:"id"`
		Artist   string `yaml:"artist"`
		Title    string `yaml:"title"`
		Duration string `yaml:"duration"`
		IsSecret bool   `yaml:"is_secret"`
	} `yaml:"songs"`
}

// runGenerateConfig builds an app config JSON from a YAML track list.
func runGenerateConfig(args []string) error {
	fs := flag.NewFlagSet("generate-config", flag.ExitOnError)
	input := fs.String("input", "songs.yaml", "path to the YAML track list")
	output := fs.String("output", "", "output path (default stdout)")
	fs.Parse(args)

	data, err := os.ReadFile(*input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *input, err)
	}

	var file songsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", *input, err)
	}

	buildHash, err := crypto.GenerateBuildHash()
	if err != nil {
		return err
	}

	keys := storage.DefaultKeyConfig()
	tracks := make([]domain.Track, 0, len(file.Songs))
	for i, song := range file.Songs {
		if song.ID == "" || song.Artist == "" || song.Title == "" || song.Duration == "" {
			return fmt.Errorf("song %d is missing required fields (id, artist, title, duration)", i+1)
		}
		tracks = append(tracks, domain.Track{
			ID:       song.ID,
			Src:      keys.SongURL(song.ID),
			Title:    song.Title,
			Artist:   song.Artist,
			Duration: song.Duration,
			Cover:    keys.AlbumArtURL(song.ID),
			IsSecret: song.IsSecret,
		})
	}

	cfg := domain.AppConfig{
		Tracks:        tracks,
		HeaderMessage: file.HeaderMessage,
		BuildDatetime: time.Now().UTC().Format(time.RFC3339),
		BuildHash:     buildHash,
		ConcatenatedPlaylist: domain.ConcatenatedPlaylist{
			Enabled: false,
			Tracks:  []domain.ConcatenatedTrack{},
		},
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if *output == "" {
		os.Stdout.Write(out)
		return nil
	}
	if err := os.WriteFile(*output, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *output, err)
	}
	fmt.Printf("Wrote %s (%d tracks, build %s)\n", *output, len(tracks), buildHash)
	return nil
}

// =============================================================================
// put-params / get-params
// =============================================================================

// runPutParams writes the edge auth and version parameters.
func runPutParams(args []string) error {
	fs := flag.NewFlagSet("put-params", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	username := fs.String("username", "", "edge auth username")
	password := fs.String("password", "", "edge auth password (omit with -generate-password)")
	generate := fs.Bool("generate-password", false, "generate a random password")
	versions := fs.String("versions", "", "comma-separated active versions, newest first (e.g. v3,v2)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if *generate {
		generated, err := crypto.GeneratePassword()
		if err != nil {
			return err
		}
		*password = generated
	}

	client := paramstore.NewClient(cfg.Edge.Region)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	put := func(name, value string) error {
		if value == "" {
			return nil
		}
		if err := client.PutParameter(ctx, name, value); err != nil {
			return fmt.Errorf("failed to put %s: %w", name, err)
		}
		fmt.Printf("Put %s\n", name)
		return nil
	}

	if err := put(cfg.Edge.AuthUsernameParam, *username); err != nil {
		return err
	}
	if err := put(cfg.Edge.AuthPasswordParam, *password); err != nil {
		return err
	}
	if err := put(cfg.Edge.ActiveVersionsParam, *versions); err != nil {
		return err
	}

	if *generate && *password != "" {
		fmt.Printf("Generated password: %s\n", *password)
	}

	// The edge caches parameters for a minute per execution environment.
	fmt.Println("Note: edge functions pick up changes within their cache TTL.")
	return nil
}

// runGetParams prints the current edge parameters.
func runGetParams(args []string) error {
	fs := flag.NewFlagSet("get-params", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	showSecrets := fs.Bool("show-secrets", false, "print the password value")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	client := paramstore.NewClient(cfg.Edge.Region)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	names := []string{
		cfg.Edge.AuthUsernameParam,
		cfg.Edge.AuthPasswordParam,
		cfg.Edge.ActiveVersionsParam,
	}
	values, invalid, err := client.GetParameters(ctx, names)
	if err != nil {
		return err
	}

	for _, name := range names {
		value, ok := values[name]
		if !ok {
			continue
		}
		if name == cfg.Edge.AuthPasswordParam && !*showSecrets {
			value = strings.Repeat("*", len(value))
		}
		fmt.Printf("%s = %s\n", name, value)
	}
	if len(invalid) > 0 {
		fmt.Fprintf(os.Stderr, "Missing parameters: %s\n", strings.Join(invalid, ", "))
		os.Exit(1)
	}
	return nil
}

func printUsage() {
	fmt.Println(`Lit Up Admin CLI

Usage:
  litup-admin <command> [arguments]

Commands:
  generate-config  Build an app config JSON from a YAML track list
  put-params       Write the edge auth and active-version parameters
  get-params       Print the current edge parameters
  version          Print version information
  help             Show this help message

Examples:
  litup-admin generate-config -input songs.yaml -output app-config.json
  litup-admin put-params -username listener -generate-password
  litup-admin put-params -versions v3,v2
  litup-admin get-params -show-secrets

Use "litup-admin <command> -h" for more information about a command.`)
}
