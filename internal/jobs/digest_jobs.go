package jobs

import (
	"context"
	"fmt"
	"strings"

	"everkeep-backend/internal/logger"
)

// SendPendingRequestDigest emails each memorial owner a daily summary of
// access requests still awaiting a decision.
func (jr *JobRunner) SendPendingRequestDigest() {
	jr.runWithRecovery("SendPendingRequestDigest", func() {
		ctx := context.Background()

		pendingByOwner, err := jr.store.AccessRequestRepository.ListPendingGroupedByOwner(ctx)
		if err != nil {
			logger.Error("Failed to load pending access requests", "error", err)
			return
		}

		sent := 0
		for ownerID, requests := range pendingByOwner {
			owner, err := jr.store.UserRepository.GetByID(ctx, ownerID)
			if err != nil {
				logger.Error("Failed to load owner for digest", "owner_id", ownerID, "error", err)
				continue
			}

			var lines []string
			for _, req := range requests {
				name := req.RequesterName
				if name == "" {
					name = req.RequesterEmail
				}
				lines = append(lines, fmt.Sprintf("- %s (requested %s)", name, req.CreatedOn.Format("Jan 2, 2006")))
			}

			subject := fmt.Sprintf("You have %d pending access request(s)", len(requests))
			body := fmt.Sprintf(`Dear %s,

The following people are waiting for access to your memorial pages:

%s

Visit your dashboard to approve or decline them.

With care,
The Everkeep Team`, owner.Name, strings.Join(lines, "\n"))

			if err := jr.email.SendOwnerDigest(ctx, owner.Email, subject, body); err != nil {
				logger.Error("Failed to send pending request digest",
					"owner_id", ownerID,
					"email", owner.Email,
					"error", err)
				continue
			}

			sent++
			logger.Debug("Sent pending request digest", "owner_id", ownerID, "pending", len(requests))
		}

		logger.Info("Pending request digest finished", "owners_notified", sent)
	})
}
