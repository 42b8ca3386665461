package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/roymathewwww/canteen-rush-ai/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var (
	sesOnce   sync.Once
	sesClient *ses.Client
)

func client() *ses.Client {
	sesOnce.Do(func() {
		cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
		if err != nil {
			log.Printf("AWS config load failed, receipts disabled: %v", err)
			return
		}
		sesClient = ses.NewFromConfig(cfg)
	})
	return sesClient
}

// generic SES sender
func sendEmail(to string, subject string, body string) error {
	c := client()
	if c == nil {
		return fmt.Errorf("mailer not configured")
	}
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	_, err := c.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("SES send error: %v", err)
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

// SendOrderReceipt mails a plain-text confirmation after a successful
// pre-order. Only used when the student id looks like an email.
func SendOrderReceipt(to string, order *models.Order) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Your canteen pre-order is confirmed.\n\n")
	fmt.Fprintf(&b, "Order: %s\nPickup slot: %s\n", order.ID, order.BreakSlot)
	if order.PredictedPickup != "" {
		fmt.Fprintf(&b, "Predicted pickup: %s\n", order.PredictedPickup)
	}
	b.WriteString("\nItems:\n")
	for _, it := range order.Items {
		name := fmt.Sprintf("item #%d", it.MenuItemID)
		if it.MenuItem != nil {
			name = it.MenuItem.Name
		}
		fmt.Fprintf(&b, "  %s x%d = %d\n", name, it.Quantity, it.PriceAtTime*it.Quantity)
	}
	fmt.Fprintf(&b, "\nPayable total (incl. tax): %d\n", order.Total())
	return sendEmail(to, "Canteen order confirmed", b.String())
}
