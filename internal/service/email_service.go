package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"mathquest/internal/models"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service. An empty fromEmail produces a
// disabled service whose send methods are no-ops, so callers never need to
// nil-check.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: EMAIL_FROM_ADDRESS not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail sends a welcome email to a new guardian
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to MathQuest!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #5b4ae2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #5b4ae2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Welcome to MathQuest!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Thank you for creating your MathQuest account! We're excited to help your children prepare for their math exams with daily practice that sticks.</p>
			<p>Here's what you can do next:</p>
			<ul>
				<li>Add learners to your family account</li>
				<li>Let them review flashcards on their personal schedule</li>
				<li>Watch lessons, exercises and quizzes earn them XP and badges</li>
				<li>Follow streaks and weekly challenges from your dashboard</li>
			</ul>
			<p style="text-align: center;">
				<a href="%s/login" class="button">Get Started</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from MathQuest. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Thank you for creating your MathQuest account! We're excited to help your children prepare for their math exams with daily practice that sticks.

Here's what you can do next:
- Add learners to your family account
- Let them review flashcards on their personal schedule
- Watch lessons, exercises and quizzes earn them XP and badges
- Follow streaks and weekly challenges from your dashboard

Get started: %s/login

---
This is an automated email from MathQuest. Please do not reply.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendInvitationEmail sends a family invitation with an accept link
func (s *EmailService) SendInvitationEmail(ctx context.Context, toEmail, inviterName, familyName, inviteCode string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): invitation to %s", toEmail)
		return nil
	}

	inviteLink := fmt.Sprintf("%s/register?invite=%s", s.appBaseURL, inviteCode)
	subject := fmt.Sprintf("%s invited you to join %s on MathQuest", inviterName, familyName)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #5b4ae2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #5b4ae2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>You're invited!</h1>
		</div>
		<div class="content">
			<p>Hi,</p>
			<p>%s has invited you to join the family <strong>%s</strong> on MathQuest, so you can follow your learners' progress together.</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Accept Invitation</a>
			</p>
			<p>Or copy and paste this link into your browser:</p>
			<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
			<p><strong>This invitation expires in 7 days.</strong></p>
		</div>
		<div class="footer">
			<p>This is an automated email from MathQuest. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, inviterName, familyName, inviteLink, inviteLink)

	textBody := fmt.Sprintf(`Hi,

%s has invited you to join the family %s on MathQuest, so you can follow your learners' progress together.

Accept the invitation:
%s

This invitation expires in 7 days.

---
This is an automated email from MathQuest. Please do not reply.
`, inviterName, familyName, inviteLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendWeeklyDigestEmail sends a guardian a summary of each learner's week
func (s *EmailService) SendWeeklyDigestEmail(ctx context.Context, toEmail, toName string, learners []models.LearnerWithProgress) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): weekly digest to %s", toEmail)
		return nil
	}

	subject := "Your MathQuest weekly digest"

	var htmlRows, textRows strings.Builder
	for _, lp := range learners {
		htmlRows.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>Level %d (%s)</td><td>%d XP</td><td>%d-day streak</td><td>%d cards due</td></tr>\n",
			lp.Learner.Name, lp.Level, lp.Title, lp.TotalPoints, lp.CurrentStreak, lp.DueCards))
		textRows.WriteString(fmt.Sprintf("- %s: level %d (%s), %d XP, %d-day streak, %d cards due\n",
			lp.Learner.Name, lp.Level, lp.Title, lp.TotalPoints, lp.CurrentStreak, lp.DueCards))
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #5b4ae2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		table { border-collapse: collapse; width: 100%%; }
		td { padding: 8px; border-bottom: 1px solid #ddd; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Weekly Digest</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Here's how your learners did this week:</p>
			<table>
%s			</table>
			<p style="text-align: center;"><a href="%s/dashboard">Open your dashboard</a></p>
		</div>
		<div class="footer">
			<p>This is an automated email from MathQuest. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, htmlRows.String(), s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Here's how your learners did this week:

%s
Open your dashboard: %s/dashboard

---
This is an automated email from MathQuest. Please do not reply.
`, toName, textRows.String(), s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
