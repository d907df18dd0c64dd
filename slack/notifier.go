package slack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nanzhong/shorts/shortinterest"
	"github.com/shopspring/decimal"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Notifier posts a short interest summary to a Slack channel.
type Notifier struct {
	channel string

	log         *zap.Logger
	slackClient *slack.Client
}

func NewNotifier(slackClient *slack.Client, channel string, log *zap.Logger) *Notifier {
	return &Notifier{
		channel: channel,

		log:         log,
		slackClient: slackClient,
	}
}

func (n *Notifier) Notify(ctx context.Context, payload shortinterest.Payload) error {
	_, ts, err := n.slackClient.PostMessageContext(
		ctx,
		n.channel,
		slack.MsgOptionText(summaryText(payload), false),
		slack.MsgOptionBlocks(summaryBlocks(payload)...),
	)
	if err != nil {
		return fmt.Errorf("posting summary: %w", err)
	}
	n.log.Info("Posted summary to slack", zap.String("channel", n.channel), zap.String("ts", ts))
	return nil
}

func summaryText(payload shortinterest.Payload) string {
	var tickers []string
	for _, r := range payload.Results {
		tickers = append(tickers, r.Ticker)
	}
	var failed []string
	for _, e := range payload.Errors {
		failed = append(failed, e.Ticker)
	}

	switch {
	case len(tickers) == 0 && len(failed) == 0:
		return "No short interest results"
	case len(failed) == 0:
		return fmt.Sprintf("Short interest for %s", strings.Join(tickers, ", "))
	case len(tickers) == 0:
		return fmt.Sprintf("Short interest unavailable for %s", strings.Join(failed, ", "))
	default:
		return fmt.Sprintf("Short interest for %s (failed: %s)", strings.Join(tickers, ", "), strings.Join(failed, ", "))
	}
}

func summaryBlocks(payload shortinterest.Payload) []slack.Block {
	asOf := time.Unix(payload.Timestamp, 0).UTC().Format(time.RFC1123)
	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("Short interest as of %s :bear:", asOf), false, false),
			nil,
			nil,
		),
	}

	for i, result := range payload.Results {
		blocks = append(blocks,
			slack.NewHeaderBlock(
				slack.NewTextBlockObject(slack.PlainTextType, result.Ticker, false, false)),
			slack.NewSectionBlock(
				slack.NewTextBlockObject(slack.MarkdownType, formatResult(result), false, false),
				nil,
				nil,
			),
		)
		if i != len(payload.Results)-1 {
			blocks = append(blocks, slack.NewDividerBlock())
		}
	}

	if len(payload.Errors) != 0 {
		var lines []string
		for _, e := range payload.Errors {
			lines = append(lines, fmt.Sprintf("• `%s`: %s", e.Ticker, withoutPercent(e.Error)))
		}
		blocks = append(blocks,
			slack.NewDividerBlock(),
			slack.NewSectionBlock(
				slack.NewTextBlockObject(slack.MarkdownType, "*Failed*\n"+strings.Join(lines, "\n"), false, false),
				nil,
				nil,
			),
		)
	}
	return blocks
}

// Block text goes through a second round of URL unescaping on the way to
// Slack, so it must not carry a literal percent sign.
func formatResult(result shortinterest.Result) string {
	if result.ShortInterestPct == nil {
		return "_no short interest data_"
	}
	pct := decimal.NewFromFloat(*result.ShortInterestPct).Mul(decimal.New(100, 0)).StringFixed(2)
	if result.SourceField == nil {
		return fmt.Sprintf("*%s pct*", pct)
	}
	return fmt.Sprintf("*%s pct* of float (%s)", pct, *result.SourceField)
}

func withoutPercent(s string) string {
	return strings.ReplaceAll(s, "%", " pct ")
}
