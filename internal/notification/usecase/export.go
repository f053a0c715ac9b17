package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/storage"
	"github.com/bookhivelabs/bookhive/internal/shared/constant"
)

const exportMaxRows int32 = 100_000

type ExportInput struct {
	DateFrom time.Time `validate:"required"`
	DateTo   time.Time `validate:"required"`
}

type ExportOutput struct {
	Rows        int
	ObjectKey   string
	DownloadURL string
}

// Export writes a CSV delivery report for a date window to object storage and
// returns a presigned download URL. Admin only.
func (s *Usecase) Export(ctx context.Context, in ExportInput) (*ExportOutput, error) {
	ctx, span := s.startSpan(ctx, "Export")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermNotifications, constant.PermActExport); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if !in.DateTo.After(in.DateFrom) {
		return nil, goerror.NewBusiness("date_to must be after date_from", goerror.CodeInvalidInput)
	}

	rows, err := s.repoDB.ListForExport(ctx, in.DateFrom, in.DateTo, exportMaxRows)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list notifications for export", "error", err)
		return nil, goerror.NewServer(err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	record := []string{"id", "user_id", "type", "status", "channels", "retry_count", "error_message", "sent_at", "created_at"}
	if err := w.Write(record); err != nil {
		return nil, goerror.NewServer(err)
	}

	for _, row := range rows {
		channels := make([]string, 0, len(row.Channels))
		for _, ch := range row.Channels {
			channels = append(channels, ch.String())
		}

		sentAt := ""
		if row.SentAt != nil {
			sentAt = row.SentAt.UTC().Format(time.RFC3339)
		}

		record = record[:0]
		record = append(record,
			strconv.FormatInt(row.ID, 10),
			strconv.FormatInt(row.UserID, 10),
			row.Type.String(),
			row.Status.String(),
			strings.Join(channels, "|"),
			strconv.Itoa(int(row.RetryCount)),
			row.ErrorMessage,
			sentAt,
			row.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err := w.Write(record); err != nil {
			return nil, goerror.NewServer(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, goerror.NewServer(err)
	}

	bucket := strings.TrimSpace(s.cfg.GetString("modules.notification.export_bucket"))
	key := fmt.Sprintf("delivery-reports/%s_%s_%d.csv",
		in.DateFrom.UTC().Format("20060102"), in.DateTo.UTC().Format("20060102"), s.uid.Generate())

	if _, err := s.storage.PutObject(ctx, bucket, key, &buf, storage.PutOptions{
		Size:        int64(buf.Len()),
		ContentType: "text/csv",
	}); err != nil {
		slog.ErrorContext(ctx, "failed to upload delivery report", "bucket", bucket, "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	url, err := s.storage.PresignGet(ctx, bucket, key, s.cfg.GetMinute("modules.notification.export_url_ttl_minutes"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign delivery report", "bucket", bucket, "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ExportOutput{Rows: len(rows), ObjectKey: key, DownloadURL: url}, nil
}
