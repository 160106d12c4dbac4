package notify

import (
	"fmt"
	"html"

	"github.com/Anantmishra121/learningedgeBackend/utils"
)

const supportAddress = "noreply.learnedge@gmail.com"

// layout wraps a message body in the common LearningEdge frame
func layout(title, heading, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.4; color: #333333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px; text-align: center;">
		<div style="font-size: 18px; font-weight: bold; margin-bottom: 20px;">%s</div>
		<div style="font-size: 16px; margin-bottom: 20px;">%s</div>
		<div style="font-size: 14px; color: #999999; margin-top: 20px;">
			If you have any questions or need assistance, please feel free to reach out to us at
			<a href="mailto:%s">%s</a>. We are here to help!
		</div>
	</div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(heading), body, supportAddress, supportAddress)
}

// CourseEnrollmentEmail confirms a new enrollment
func CourseEnrollmentEmail(courseName, name string) string {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have successfully enrolled in the course <strong>"%s"</strong> on LearningEdge.</p>
		<p>Open your dashboard to explore the course materials and track your progress.</p>
	`, html.EscapeString(name), html.EscapeString(courseName))
	return layout("Course Enrollment Confirmation", "Course Enrollment Confirmation", body)
}

// PaymentSuccessEmail confirms a captured payment. amount is in minor units.
func PaymentSuccessEmail(name string, amount int64, orderID, paymentID string) string {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We are pleased to confirm that your payment has been successfully processed.</p>
		<p><strong>Amount:</strong> ₹%s</p>
		<p><strong>Order ID:</strong> %s</p>
		<p><strong>Payment ID:</strong> %s</p>
		<p>Your course enrollment has been activated and you now have full access to the learning materials.</p>
	`, html.EscapeString(name), utils.FormatMinorUnits(amount), html.EscapeString(orderID), html.EscapeString(paymentID))
	return layout("Payment Confirmation", "Payment Confirmation", body)
}

// OTPVerificationEmail carries the signup OTP
func OTPVerificationEmail(otp, name string) string {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Thank you for registering with LearningEdge. Please use the following OTP to verify your account:</p>
		<h2 style="font-weight: bold;">%s</h2>
		<p>This OTP is valid for 5 minutes. If you did not request this verification, please disregard this email.</p>
	`, html.EscapeString(name), html.EscapeString(otp))
	return layout("OTP Verification Email", "OTP Verification Email", body)
}

// PasswordResetOTPEmail carries the password reset OTP
func PasswordResetOTPEmail(otp, name string) string {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We received a request to reset your password for your LearningEdge account.</p>
		<p>To proceed with the password reset, please use the following One-Time Password (OTP):</p>
		<h2 style="font-weight: bold;">%s</h2>
		<p><strong>Important:</strong> This OTP will expire in 5 minutes.</p>
		<p>If you did not request this password reset, please ignore this email. Your password will remain unchanged.</p>
	`, html.EscapeString(name), html.EscapeString(otp))
	return layout("Password Reset OTP", "Password Reset Request", body)
}

// PasswordUpdatedEmail confirms a password change
func PasswordUpdatedEmail(email, name string) string {
	body := fmt.Sprintf(`
		<p>%s,</p>
		<p>Your password has been successfully updated for the account associated with <strong>%s</strong>.</p>
		<p>If you did not initiate this password change, please contact our support team immediately.</p>
	`, html.EscapeString(name), html.EscapeString(email))
	return layout("Password Update Confirmation", "Password Update Confirmation", body)
}

// ContactMessage is a reach-out form submission
type ContactMessage struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNo     string
	CountryCode string
	Message     string
}

// ContactAdminEmail forwards a contact form submission to the site inbox
func ContactAdminEmail(msg ContactMessage) string {
	phone := ""
	if msg.PhoneNo != "" {
		phone = fmt.Sprintf("<p><strong>Phone:</strong> %s %s</p>", html.EscapeString(msg.CountryCode), html.EscapeString(msg.PhoneNo))
	}
	return fmt.Sprintf(`
		<h2>New Contact Form Submission</h2>
		<p><strong>From:</strong> %s %s</p>
		<p><strong>Email:</strong> %s</p>
		%s
		<p><strong>Message:</strong></p>
		<p>%s</p>
	`, html.EscapeString(msg.FirstName), html.EscapeString(msg.LastName), html.EscapeString(msg.Email), phone, html.EscapeString(msg.Message))
}

// ContactConfirmationEmail acknowledges a contact form submission to its sender
func ContactConfirmationEmail(msg ContactMessage) string {
	return fmt.Sprintf(`
		<h2>Thank you for contacting LearningEdge!</h2>
		<p>Dear %s,</p>
		<p>We have received your message and will get back to you as soon as possible.</p>
		<p><strong>Your message:</strong></p>
		<p>%s</p>
		<br>
		<p>Best regards,</p>
		<p>LearningEdge Team</p>
	`, html.EscapeString(msg.FirstName), html.EscapeString(msg.Message))
}
