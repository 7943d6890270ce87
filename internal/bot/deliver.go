package bot

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/renohub/core/internal/adapter"
	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// NotificationDeliverer resolves a Notification's recipients to their
// private Telegram chat and sends it there, satisfying scheduler.Deliverer.
// Only Telegram recipients are reachable today: WhatsApp delivery needs a
// phone-number-keyed chat id, which IsBotStarted/WhatsAppID alone can't
// supply without the concrete adapter's contact lookup.
type NotificationDeliverer struct {
	log      zerolog.Logger
	projects repository.ProjectRepository
	users    repository.UserRepository
	sender   Sender
}

func NewNotificationDeliverer(log zerolog.Logger, projects repository.ProjectRepository, users repository.UserRepository, sender Sender) NotificationDeliverer {
	return NotificationDeliverer{log: log, projects: projects, users: users, sender: sender}
}

func (d NotificationDeliverer) Deliver(ctx context.Context, n domain.Notification) error {
	proj, err := d.projects.Get(ctx, n.ProjectID)
	if err != nil {
		return err
	}

	for _, userID := range n.RecipientIDs {
		u, err := d.users.Get(ctx, userID)
		if err != nil {
			d.log.Warn().Err(err).Str("user_id", userID.String()).Msg("bot: recipient lookup failed")
			continue
		}
		if u.TelegramID == nil {
			continue
		}
		msg := adapter.OutboundMessage{
			ChatID: strconv.FormatInt(*u.TelegramID, 10),
			Text:   n.Title + "\n" + n.Body,
		}
		if err := d.sender.Send(ctx, proj.TenantID, msg); err != nil {
			d.log.Error().Err(err).Str("user_id", userID.String()).Msg("bot: notification delivery failed")
		}
	}
	return nil
}
