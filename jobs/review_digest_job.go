package jobs

import (
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/notifications"
)

// SendPendingReviewDigest mails every admin the number of sessions still
// waiting for a decision. Scheduled daily from main.
func SendPendingReviewDigest() {
	log.Println("Running job: SendPendingReviewDigest...")

	ctx, cancel := database.OpCtx()
	defer cancel()

	pendingCount, err := database.Sessions().CountDocuments(ctx, bson.M{"status": models.SessionPending})
	if err != nil {
		log.Printf("Error counting pending sessions: %v", err)
		return
	}

	if pendingCount == 0 {
		return
	}

	cursor, err := database.Users().Find(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		log.Printf("Error fetching admins for digest: %v", err)
		return
	}

	var admins []models.User
	if err := cursor.All(ctx, &admins); err != nil {
		log.Printf("Error decoding admins for digest: %v", err)
		return
	}

	emailSubject := fmt.Sprintf("%d session(s) awaiting review", pendingCount)
	emailBody := fmt.Sprintf(
		"<h1>Review Queue</h1><p>There are currently <b>%d</b> tutoring session(s) pending approval on studyHive.</p>",
		pendingCount,
	)

	for _, admin := range admins {
		go notifications.SendEmail(admin.Name, admin.Email, emailSubject, emailBody)
	}

	log.Printf("Sent pending-review digest to %d admin(s).", len(admins))
}
