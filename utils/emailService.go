package utils

import (
	"fmt"
	"strings"

	"lms/config"

	"net/smtp"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LMS <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B4C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B4C; line-height: 1.6; }
			.content h2 { color: #1A2B4C; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #3AA17E; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				You are receiving this email because you have an account on our learning platform.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendWelcomeEmail greets a newly registered user.
func SendWelcomeEmail(to, name string) error {
	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your account is ready. Browse the catalog, enroll in a course and start learning today.</p>
		<a class="btn" href="%s/courses">Browse Courses</a>`, name, config.AppConfig.FrontendURL)

	return SendEmail([]string{to}, "Welcome to the platform", getEmailTemplate("Welcome", body))
}

// SendEnrollmentEmail confirms a new course enrollment.
func SendEnrollmentEmail(to, name, courseTitle string) error {
	body := fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>You are now enrolled in <strong>%s</strong>. Your progress is tracked automatically as you complete lessons.</p>
		<a class="btn" href="%s/my-courses">Go to My Courses</a>`, name, courseTitle, config.AppConfig.FrontendURL)

	return SendEmail([]string{to}, "Enrollment confirmed: "+courseTitle, getEmailTemplate("Enrollment Confirmed", body))
}

// SendPaymentReceiptEmail confirms a captured course payment.
func SendPaymentReceiptEmail(to, name, courseTitle string, amount uint, currency, transactionID string) error {
	body := fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>We received your payment of <strong>%d %s</strong> for <strong>%s</strong>.</p>
		<p>Transaction reference: %s</p>`, name, amount, currency, courseTitle, transactionID)

	return SendEmail([]string{to}, "Payment receipt: "+courseTitle, getEmailTemplate("Payment Receipt", body))
}
