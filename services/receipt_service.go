package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	config "github.com/studyhive/study_hive/configs"
	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/models"
)

// GenerateBookingReceipt renders a PDF receipt for a confirmed booking,
// uploads it, and stores the URL back on the booking document. Runs in
// the background after booking creation; failures are logged, never
// surfaced to the student.
func GenerateBookingReceipt(booking models.Booking) {
	htmlData, err := generateReceiptHTML(booking)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF: %v", err)
		return
	}

	receiptURL, err := uploadToCloudinary(pdfBytes, booking.Reference)
	if err != nil {
		log.Printf("🔥 Failed to upload receipt to Cloudinary: %v", err)
		return
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	_, err = database.Bookings().UpdateOne(ctx,
		bson.M{"_id": booking.ID},
		bson.M{"$set": bson.M{"receiptUrl": receiptURL}},
	)
	if err != nil {
		log.Printf("🔥 Failed to store receipt URL for booking %s: %v", booking.Reference, err)
		return
	}

	log.Printf("✅ Generated receipt for booking %s.", booking.Reference)
}

func generateReceiptHTML(booking models.Booking) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		Reference       string
		SessionTitle    string
		TutorEmail      string
		StudentEmail    string
		PaymentIntentID string
		RegistrationFee string
		IssuedAt        string
	}{
		Reference:       booking.Reference,
		SessionTitle:    booking.SessionTitle,
		TutorEmail:      booking.TutorEmail,
		StudentEmail:    booking.StudentEmail,
		PaymentIntentID: booking.PaymentIntentID,
		RegistrationFee: fmt.Sprintf("%.2f", booking.RegistrationFee),
		IssuedAt:        time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, reference string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", reference, uuid.New().String()),
		Folder:       "studyhive_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
