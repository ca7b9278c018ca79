package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"bitbraille/internal/braille"
	"bitbraille/internal/config"
	"bitbraille/internal/feed"
	"bitbraille/internal/printer"
)

var (
	sendAddr    string
	sendRedis   string
	sendChannel string
	sendTimeout time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send LETTER",
	Short: "Send a letter to a running trainer",
	Long: `Send a letter to a running trainer, either through its web form or
through the Redis letter channel.

Examples:
  # Through the web form of a trainer on this machine
  bitbraille send b

  # Through another trainer's web form
  bitbraille send q --addr http://192.168.0.20:8080

  # Through Redis
  bitbraille send q --redis localhost:6379`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendAddr, "addr", "http://localhost:8080", "Base URL of the trainer")
	sendCmd.Flags().StringVar(&sendRedis, "redis", "", "Publish on Redis at this address instead of using HTTP")
	sendCmd.Flags().StringVar(&sendChannel, "channel", config.DefaultLetterChannel, "Redis letter channel")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 5*time.Second, "Give up after this long")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	l, err := braille.Parse(args[0])
	if err != nil {
		return printer.Error(cmd.ErrOrStderr(), "Invalid letter", err.Error(),
			"Pass a single letter between A and Z")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
	defer cancel()

	if sendRedis != "" {
		client := redis.NewClient(&redis.Options{Addr: sendRedis})
		defer client.Close()
		if err := feed.Publish(ctx, client, sendChannel, l); err != nil {
			return printer.Error(cmd.ErrOrStderr(), "Failed to publish letter", err.Error())
		}
		printer.Success(cmd.OutOrStdout(), "sent %s %s on %s\n", l, braille.Encode(l), sendChannel)
		return nil
	}

	if err := postForm(ctx, sendAddr, l); err != nil {
		return printer.Error(cmd.ErrOrStderr(), "Failed to send letter", err.Error(),
			"Check that the trainer is running with: bitbraille serve")
	}
	printer.Success(cmd.OutOrStdout(), "sent %s %s to %s\n", l, braille.Encode(l), sendAddr)
	return nil
}

// postForm submits the letter the way the index page does.  The trainer
// answers with a redirect back to the page.
func postForm(ctx context.Context, base string, l braille.Letter) error {
	u := strings.TrimSuffix(base, "/") + "/send.cgi?letra=" + url.QueryEscape(l.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trainer answered %s", resp.Status)
	}
	return nil
}
