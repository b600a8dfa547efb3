package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cogpy/aicogchat/pkg/provider"
)

type chatOptions struct {
	model       string
	system      string
	temperature float64
	topP        float64
	noStream    bool
}

func newChatCmd(a *app) *cobra.Command {
	var opts chatOptions

	cmd := &cobra.Command{
		Use:   "chat [prompt...]",
		Short: "Send a chat completion",
		Long: `Send a chat completion. The prompt is taken from the arguments,
or from standard input when no arguments are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd, args)
			if err != nil {
				return err
			}

			req := &provider.ChatRequest{}
			if opts.system != "" {
				req.Messages = append(req.Messages, provider.Message{Role: provider.RoleSystem, Content: opts.system})
			}
			req.Messages = append(req.Messages, provider.Message{Role: provider.RoleUser, Content: prompt})
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &opts.temperature
			}
			if cmd.Flags().Changed("top-p") {
				req.TopP = &opts.topP
			}

			if opts.noStream {
				return runChat(cmd, a, opts.model, req)
			}
			return runChatStream(cmd, a, opts.model, req)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "model id (client:model)")
	cmd.Flags().StringVarP(&opts.system, "system", "s", "", "system prompt")
	cmd.Flags().Float64Var(&opts.temperature, "temperature", 0, "sampling temperature (0-2)")
	cmd.Flags().Float64Var(&opts.topP, "top-p", 0, "nucleus sampling probability (0-1)")
	cmd.Flags().BoolVar(&opts.noStream, "no-stream", false, "wait for the full response")
	return cmd
}

func readPrompt(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(b))
	if prompt == "" {
		return "", fmt.Errorf("no prompt given")
	}
	return prompt, nil
}

func runChat(cmd *cobra.Command, a *app, model string, req *provider.ChatRequest) error {
	out, err := a.engine.Chat(cmd.Context(), model, req)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if out.Text != "" {
		fmt.Fprintln(w, out.Text)
	}
	for _, call := range out.ToolCalls {
		if err := printToolCall(w, call); err != nil {
			return err
		}
	}
	return nil
}

func runChatStream(cmd *cobra.Command, a *app, model string, req *provider.ChatRequest) error {
	p := &printer{w: cmd.OutOrStdout()}
	status, err := a.engine.ChatStream(cmd.Context(), model, req, p)
	if p.wrote {
		fmt.Fprintln(p.w)
	}
	if err != nil {
		return err
	}
	if status == provider.StreamPartial {
		slog.Warn("response incomplete", "status", status.String())
	}
	return nil
}

// printer writes stream fragments as they arrive.
type printer struct {
	w     io.Writer
	wrote bool
}

func (p *printer) Text(fragment string) error {
	p.wrote = true
	_, err := io.WriteString(p.w, fragment)
	return err
}

func (p *printer) ToolCall(call provider.ToolCall) error {
	if p.wrote {
		fmt.Fprintln(p.w)
		p.wrote = false
	}
	return printToolCall(p.w, call)
}

func printToolCall(w io.Writer, call provider.ToolCall) error {
	b, err := json.Marshal(call)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
