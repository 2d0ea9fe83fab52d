// Package main provides routectl, an operator CLI for DropRoute.
//
// It mints API access tokens and plans routes directly from an address
// file, without going through the API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/auth"
	"github.com/droproute/droproute/internal/geocode"
	"github.com/droproute/droproute/internal/geocode/nominatim"
	"github.com/droproute/droproute/internal/planner"
	"github.com/droproute/droproute/internal/routing/osrm"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "routectl",
	Short: "Operator CLI for DropRoute",
	Long:  `routectl mints API access tokens and plans delivery routes from an address file.`,
}

var (
	tokenOperator string
	tokenExpiry   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API access token",
	Long: `Mint a signed bearer token for the API. The signing key is read from
the JWT_SIGNING_KEY environment variable and must match the server's.`,
	RunE: runToken,
}

var (
	planFile      string
	planStart     string
	planReturn    bool
	planSteps     bool
	nominatimBase string
	osrmBase      string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a route from an address file",
	Long: `Plan an optimized delivery route from a JSON address file.

The file is an array of entries:

  [
    {"fullAddress": "12 Oak St, Springfield"},
    {"fullAddress": "7 Elm St, Springfield", "exactDeliveryTime": "14:30"}
  ]`,
	RunE: runPlan,
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve a single address to coordinates",
	Args:  cobra.ExactArgs(1),
	RunE:  runGeocode,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	tokenCmd.Flags().StringVarP(&tokenOperator, "operator", "o", "operator", "Operator name embedded in the token")
	tokenCmd.Flags().DurationVarP(&tokenExpiry, "expiry", "e", auth.AccessTokenExpiry, "Token lifetime")

	planCmd.Flags().StringVarP(&planFile, "file", "f", "addresses.json", "Address file path")
	planCmd.Flags().StringVarP(&planStart, "start", "s", "", "Start address (geocoded and used as the anchor)")
	planCmd.Flags().BoolVarP(&planReturn, "return-to-start", "r", false, "Append a closing leg back to the start")
	planCmd.Flags().BoolVar(&planSteps, "steps", false, "Print turn-by-turn steps")
	planCmd.Flags().StringVar(&nominatimBase, "nominatim-url", "", "Nominatim base URL (defaults to the public instance)")
	planCmd.Flags().StringVar(&osrmBase, "osrm-url", "", "OSRM base URL (defaults to the demo server)")

	geocodeCmd.Flags().StringVar(&nominatimBase, "nominatim-url", "", "Nominatim base URL (defaults to the public instance)")

	rootCmd.AddCommand(tokenCmd, planCmd, geocodeCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cliLogger() zerolog.Logger {
	if verbose {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.Nop()
}

func runToken(_ *cobra.Command, _ []string) error {
	signingKey := os.Getenv("JWT_SIGNING_KEY")
	if signingKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is not set")
	}

	svc := auth.NewService(auth.ServiceConfig{
		SigningKey:  signingKey,
		Issuer:      "https://api.droproute.app",
		Audience:    "droproute-api",
		TokenExpiry: tokenExpiry,
	})

	token, expiresAt, err := svc.IssueAccessToken(tokenOperator)
	if err != nil {
		return fmt.Errorf("minting token: %w", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
	return nil
}

// planFileEntry is one address in the plan input file.
type planFileEntry struct {
	FullAddress       string  `json:"fullAddress"`
	ExactDeliveryTime *string `json:"exactDeliveryTime,omitempty"`
}

func runPlan(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(planFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", planFile, err)
	}

	var entries []planFileEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parsing %s: %w", planFile, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%s contains no addresses", planFile)
	}

	addresses := make([]*address.Address, 0, len(entries))
	for i, e := range entries {
		if e.FullAddress == "" {
			return fmt.Errorf("%s: entry %d has no fullAddress", planFile, i)
		}
		addresses = append(addresses, &address.Address{
			ID:                fmt.Sprintf("file_%d", i),
			FullAddress:       e.FullAddress,
			ExactDeliveryTime: e.ExactDeliveryTime,
		})
	}

	log := cliLogger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	geocoder := geocode.NewService(geocode.ServiceConfig{
		Provider: nominatim.NewClient(nominatim.ClientConfig{BaseURL: nominatimBase, Logger: log}),
		Logger:   log,
	})
	router := osrm.NewClient(osrm.ClientConfig{BaseURL: osrmBase, Logger: log})
	svc := planner.NewService(planner.ServiceConfig{
		Geocoder: geocoder,
		Router:   router,
		Logger:   log,
	})

	req := planner.PlanRequest{
		Addresses:     addresses,
		ReturnToStart: planReturn,
	}
	if planStart != "" {
		coord := geocoder.Geocode(ctx, planStart)
		if coord == nil {
			return fmt.Errorf("could not geocode start address %q", planStart)
		}
		req.StartFromCurrentLocation = true
		req.CurrentLocation = coord
	}

	route, err := svc.Plan(ctx, &req)
	if err != nil {
		return fmt.Errorf("planning route: %w", err)
	}

	printRoute(route)
	return nil
}

func printRoute(route *planner.OptimizedRoute) {
	fmt.Printf("Route: %s, %s, %s\n", route.TotalDistance, route.TotalDuration, route.TotalFuel)
	if !route.RealRouting {
		fmt.Println("(straight-line estimates; no routing provider was reachable)")
	}

	for i, wp := range route.Waypoints {
		line := fmt.Sprintf("%2d. %s", i+1, wp.Address.FullAddress)
		if wp.Address.HasDeliveryTime() {
			line += fmt.Sprintf(" [deliver by %s]", *wp.Address.ExactDeliveryTime)
		}
		fmt.Println(line)
	}

	for _, dropped := range route.Dropped {
		fmt.Printf("dropped (could not geocode): %s\n", dropped)
	}

	if planSteps {
		fmt.Println()
		for _, step := range route.Steps {
			fmt.Printf("  %s (%s, %s)\n", step.Instruction, step.Distance, step.Duration)
		}
	}
}

func runGeocode(cmd *cobra.Command, args []string) error {
	log := cliLogger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	geocoder := geocode.NewService(geocode.ServiceConfig{
		Provider: nominatim.NewClient(nominatim.ClientConfig{BaseURL: nominatimBase, Logger: log}),
		Logger:   log,
	})

	coord := geocoder.Geocode(ctx, args[0])
	if coord == nil {
		return fmt.Errorf("could not geocode %q", args[0])
	}

	fmt.Printf("%.6f,%.6f\n", coord.Lat, coord.Lon)
	return nil
}
