package consumer

import (
	"context"
	"encoding/json"

	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/events"
	"github.com/gHoSTeCHs/shelfwiser-sub002/internal/payslip"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayRunCompleted pre-renders payslip documents once a run completes,
// keeping PDF generation off the completion transaction and the API path.
func ConsumePayRunCompleted(
	ctx context.Context,
	reader *kafkago.Reader,
	payslipService payslip.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payrun_completed")
	log.Info("pay run completion consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("pay run completion consumer stopped")
				return
			}
			log.Error("fetch pay run completion message failed", zap.Error(err))
			continue
		}

		var event events.PayRunCompletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payrun.completed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		rendered, err := payslipService.RenderForRun(ctx, event.CompanyID, event.PayRunID)
		if err != nil {
			log.Error("render payslips for run failed",
				zap.String("pay_run_id", event.PayRunID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit pay run completion message failed", zap.Error(err))
			continue
		}

		log.Info("payslips rendered for completed run",
			zap.String("pay_run_id", event.PayRunID),
			zap.String("company_id", event.CompanyID),
			zap.Int("rendered", rendered),
		)
	}
}
