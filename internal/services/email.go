package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"shopfront/internal/models"
	"shopfront/internal/obs"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPConfig holds the mail server settings.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// EmailService, sipariş onay e-postalarını gönderir.
type EmailService struct {
	sender  mailSender
	from    string
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewEmailService, yeni bir EmailService örneği oluşturur.
// Without SMTP credentials it only logs the mails it would send.
func NewEmailService(cfg SMTPConfig) *EmailService {
	if cfg.User == "" || cfg.Pass == "" {
		obs.Logger.Info("SMTP credentials not set, confirmation emails will only be logged")
		return newEmailService(nil, cfg.From)
	}
	return newEmailService(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass), cfg.From)
}

func newEmailService(sender mailSender, from string) *EmailService {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			obs.Logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &EmailService{sender: sender, from: from, breaker: breaker}
}

// Deliver sends the confirmation for order to the address it was placed with.
func (es *EmailService) Deliver(ctx context.Context, order models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if es.sender == nil {
		obs.Logger.Info(fmt.Sprintf("sending email to %s", order.Email), zap.Int64("order_id", order.ID))
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", es.from)
	m.SetHeader("To", order.Email)
	m.SetHeader("Subject", fmt.Sprintf("Order #%d confirmed", order.ID))
	m.SetBody("text/html", confirmationBody(order))

	_, err := es.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, es.sender.DialAndSend(m)
	})
	if err != nil {
		return fmt.Errorf("send confirmation to %s: %w", order.Email, err)
	}

	obs.Logger.Info("confirmation email sent", zap.Int64("order_id", order.ID), zap.String("to", order.Email))
	return nil
}

func confirmationBody(order models.Order) string {
	names := make([]string, 0, len(order.Products))
	for name := range order.Products {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	total := decimal.Zero
	b.WriteString("<h2>Thank you for your order!</h2>\n<ul>\n")
	for _, name := range names {
		line := order.Products[name]
		total = total.Add(line.Total)
		fmt.Fprintf(&b, "<li>%d x %s: £%s</li>\n", line.Quantity, name, line.Total.StringFixed(2))
	}
	fmt.Fprintf(&b, "</ul>\n<p>Total: £%s</p>\n", total.StringFixed(2))
	return b.String()
}
