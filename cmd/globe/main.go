package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/terraviz/globe/internal/geo"
	"github.com/terraviz/globe/internal/server"
	"github.com/terraviz/globe/internal/topo"
)

// Options defines all CLI flags and env vars for the globe server.
// Flags: --host, --port, --data-dir, --manifest
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_MANIFEST
type Options struct {
	Host     string `doc:"Host to bind to" default:"0.0.0.0"`
	Port     int    `doc:"Port to listen on" short:"p" default:"8086"`
	DataDir  string `doc:"Directory for layer config and gazetteer data" default:".data"`
	Manifest string `doc:"Path to asset manifest YAML"`
}

func newServer(opts *Options) *server.Server {
	return server.New(server.Config{
		Host:         opts.Host,
		Port:         fmt.Sprintf("%d", opts.Port),
		DataDir:      opts.DataDir,
		ManifestPath: opts.Manifest,
	})
}

// parseCoordinate reads "lat,lon" text into a validated coordinate.
func parseCoordinate(arg string) (geo.Coordinate, error) {
	parts := strings.SplitN(arg, ",", 2)
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("expected lat,lon but got %q", arg)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("bad latitude in %q: %w", arg, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("bad longitude in %q: %w", arg, err)
	}
	c := geo.Coordinate{Lon: lon, Lat: lat}
	return c, c.Validate()
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv := newServer(opts)

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("globe API server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Data:    %s\n", opts.DataDir)
			fmt.Println()
			fmt.Printf("  Scene:   %s/api/v1/scene\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})
	})

	cli.Root().Use = "globe"
	cli.Root().Short = "Earth globe geometry pipeline for 3D renderers"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts)
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// distance subcommand: great-circle math without a server
	distanceCmd := &cobra.Command{
		Use:   "distance <lat,lon> <lat,lon>",
		Short: "Great-circle distance and initial bearing between two points",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			from, err := parseCoordinate(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			to, err := parseCoordinate(args[1])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("From:     %s\n", from)
			fmt.Printf("To:       %s\n", to)
			fmt.Printf("Distance: %.1f km\n", geo.Distance(from, to))
			fmt.Printf("Bearing:  %.1f°\n", geo.Bearing(from, to))
		},
	}
	cli.Root().AddCommand(distanceCmd)

	// decode subcommand: inspect a topology file
	decodeCmd := &cobra.Command{
		Use:   "decode <topology.json>",
		Short: "Decode a quantized topology file and print object stats",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			t, err := topo.Decode(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "decode failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Arcs:    %d\n", t.ArcCount())
			for name := range t.Objects {
				mesh, err := topo.BuildMesh(t, name, nil)
				if err != nil {
					fmt.Printf("Object:  %s (unusable: %v)\n", name, err)
					continue
				}
				points := 0
				for _, ring := range mesh.Rings {
					points += len(ring)
				}
				fmt.Printf("Object:  %s  rings=%d points=%d\n", name, len(mesh.Rings), points)
			}
		},
	}
	cli.Root().AddCommand(decodeCmd)

	cli.Run()
}
