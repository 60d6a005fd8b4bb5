package telegram

import (
	"context"
	"log/slog"

	"flickr_syncer/internal/message"
)

// reportHeader prefixes every error report, already MarkdownV2-escaped.
const reportHeader = `*Telegram Chat Bot \- Flickr \| Error*` + "\n"

// Reporter sends error reports to the dedicated reporting chat. Reporting is
// best effort: a failure to report is logged and swallowed, never allowed to
// mask the error being reported.
type Reporter struct {
	client *Client
	chatID string
	logger *slog.Logger
}

func NewReporter(client *Client, chatID string, logger *slog.Logger) *Reporter {
	return &Reporter{
		client: client,
		chatID: chatID,
		logger: logger,
	}
}

func (r *Reporter) Report(ctx context.Context, text string) {
	_, err := r.client.SendMessage(ctx, r.chatID, reportHeader+message.Escape(text))
	if err != nil {
		r.logger.Error("failed to report error to telegram", "error", err, "report", text)
	}
}
