// Command respond is a small CLI for the Responses API: it sends a prompt,
// prints the generated text (optionally streaming it as it arrives), and can
// inspect or delete stored responses.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rhuss/responses-go/pkg/config"
	"github.com/rhuss/responses-go/pkg/credentials"
	"github.com/rhuss/responses-go/pkg/debug"
	"github.com/rhuss/responses-go/pkg/observability"
	"github.com/rhuss/responses-go/pkg/responses"
)

var (
	configPath   string
	baseURL      string
	model        string
	instructions string
	stream       bool
	store        bool
	showJSON     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "respond [prompt]",
		Short: "Generate a model response for a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), strings.Join(args, " "))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL override")
	rootCmd.Flags().StringVarP(&model, "model", "m", "", "model name")
	rootCmd.Flags().StringVarP(&instructions, "instructions", "i", "", "system instructions")
	rootCmd.Flags().BoolVarP(&stream, "stream", "s", false, "stream output as it is generated")
	rootCmd.Flags().BoolVar(&store, "store", false, "store the response server-side")

	getCmd := &cobra.Command{
		Use:   "get <response-id>",
		Short: "Retrieve a stored response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), args[0])
		},
		SilenceUsage: true,
	}
	getCmd.Flags().BoolVar(&showJSON, "json", false, "print the raw response JSON")

	deleteCmd := &cobra.Command{
		Use:   "delete <response-id>",
		Short: "Delete a stored response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), args[0])
		},
		SilenceUsage: true,
	}

	inputsCmd := &cobra.Command{
		Use:   "inputs <response-id>",
		Short: "List the input items of a stored response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInputs(cmd.Context(), args[0])
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(getCmd, deleteCmd, inputsCmd)

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// newClient loads configuration and builds the API client.
func newClient() (*responses.Client, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)

	httpClient := &http.Client{Timeout: cfg.API.Timeout}

	opts := []responses.Option{
		responses.WithBaseURL(cfg.API.BaseURL),
	}
	if baseURL != "" {
		opts = append(opts, responses.WithBaseURL(baseURL))
	}
	if cfg.Observability.Metrics.Enabled {
		metrics := observability.New(prometheus.DefaultRegisterer)
		httpClient.Transport = observability.NewTransport(nil, metrics)
		opts = append(opts, responses.WithMetrics(metrics))
	}
	opts = append(opts, responses.WithHTTPClient(httpClient))
	if cfg.API.Organization != "" {
		opts = append(opts, responses.WithOrganization(cfg.API.Organization))
	}
	if cfg.API.Project != "" {
		opts = append(opts, responses.WithProject(cfg.API.Project))
	}

	switch cfg.Auth.Type {
	case "jwt":
		signer, err := credentials.NewSigner(credentials.SignerConfig{
			Secret:   []byte(cfg.Auth.JWT.Secret),
			Subject:  cfg.Auth.JWT.Subject,
			Issuer:   cfg.Auth.JWT.Issuer,
			Audience: cfg.Auth.JWT.Audience,
			TTL:      cfg.Auth.JWT.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, responses.WithCredentials(signer))
	default:
		if cfg.Auth.APIKey != "" {
			opts = append(opts, responses.WithAPIKey(cfg.Auth.APIKey))
		}
		// Otherwise the client falls back to OPENAI_API_KEY.
	}

	client, err := responses.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

func runCreate(ctx context.Context, prompt string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	m := model
	if m == "" {
		m = cfg.API.DefaultModel
	}

	req := &responses.Request{
		Model:        responses.Model(m),
		Input:        responses.TextInput(prompt),
		Instructions: instructions,
	}
	if store {
		req.Store = &store
	}

	if stream {
		return streamResponse(ctx, client, req)
	}

	resp, err := client.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(resp.OutputText())
	printUsage(resp)
	return nil
}

func streamResponse(ctx context.Context, client *responses.Client, req *responses.Request) error {
	s, err := client.Stream(ctx, req)
	if err != nil {
		return err
	}
	defer s.Close()

	var acc responses.Accumulator
	for {
		ev, err := s.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		acc.Apply(ev)

		switch ev.Type {
		case responses.EventOutputTextDelta:
			fmt.Print(ev.Delta)
		case responses.EventRefusalDelta:
			fmt.Print(ev.Delta)
		}
		if ev.Type.Terminal() {
			break
		}
	}
	fmt.Println()

	if apiErr := acc.Err(); apiErr != nil {
		return apiErr
	}
	resp := acc.Response()
	printUsage(&resp)
	return nil
}

func runGet(ctx context.Context, id string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	resp, err := client.Get(ctx, id)
	if err != nil {
		return err
	}

	if showJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("ID:      %s\n", resp.ID)
	fmt.Printf("Status:  %s\n", resp.Status)
	fmt.Printf("Model:   %s\n", resp.Model)
	fmt.Printf("Created: %s\n", time.Unix(resp.CreatedAt, 0).Format(time.RFC3339))
	if text := resp.OutputText(); text != "" {
		fmt.Printf("Output:  %s\n", text)
	}
	printUsage(resp)
	return nil
}

func runDelete(ctx context.Context, id string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}

func runInputs(ctx context.Context, id string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	list, err := client.ListInputItems(ctx, id)
	if err != nil {
		return err
	}

	for _, item := range list.Data {
		fmt.Printf("%-30s %s\n", item.ID, item.Type)
	}
	if list.HasMore {
		fmt.Println("(more items available)")
	}
	return nil
}

func printUsage(resp *responses.Response) {
	if resp.Usage == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "tokens: %d in / %d out / %d total\n",
		resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Usage.TotalTokens)
}

// printError renders API errors with their server-side detail.
func printError(err error) {
	if apiErr, ok := responses.AsAPIError(err); ok {
		fmt.Fprintf(os.Stderr, "error (%s): %s\n", apiErr.Type, apiErr.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
