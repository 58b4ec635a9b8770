package services

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"time"

	"github.com/aws/aws-sdk-go/aws"         //nolint:staticcheck // TODO: Migrate to aws-sdk-go-v2
	"github.com/aws/aws-sdk-go/aws/session" //nolint:staticcheck
	"github.com/aws/aws-sdk-go/service/ses" //nolint:staticcheck
	"gorm.io/gorm"

	"github.com/auralis-music/auralis-api/internal/config"
	"github.com/auralis-music/auralis-api/internal/models"
)

type EmailService struct {
	db        *gorm.DB
	cfg       *config.Config
	sesClient *ses.SES
}

func NewEmailService(db *gorm.DB, cfg *config.Config) *EmailService {
	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWSRegion),
	}))

	return &EmailService{
		db:        db,
		cfg:       cfg,
		sesClient: ses.New(sess),
	}
}

const (
	tokenBytes              = 32
	verificationTokenExpiry = 24 * time.Hour
)

// GenerateVerificationToken creates a new email verification token
func (s *EmailService) GenerateVerificationToken(userID uint) (string, error) {
	randomBytes := make([]byte, tokenBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(randomBytes)

	verificationToken := models.EmailVerificationToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(verificationTokenExpiry),
	}

	if err := s.db.Create(&verificationToken).Error; err != nil {
		return "", err
	}

	return token, nil
}

// SendVerificationEmail sends a verification email to the user
func (s *EmailService) SendVerificationEmail(user *models.User, token string) error {
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.FrontendURL, token)

	htmlTemplate := `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Verify Your Email - Auralis</title>
</head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #1db9a0 0%, #14546b 100%);
                padding: 30px; border-radius: 10px 10px 0 0; text-align: center;">
        <h1 style="color: white; margin: 0;">Auralis</h1>
    </div>
    <div style="background-color: white; padding: 40px; border-radius: 0 0 10px 10px;
                box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
        <h2 style="color: #333;">Welcome, {{.Name}}!</h2>
        <p style="color: #666; line-height: 1.6;">
            Thank you for signing up for Auralis. To complete your registration
            and start building playlists from a short listening interview,
            please verify your email address.
        </p>
        <div style="text-align: center; margin: 30px 0;">
            <a href="{{.VerificationURL}}"
               style="background: linear-gradient(135deg, #1db9a0 0%, #14546b 100%);
                      color: white; padding: 15px 40px; text-decoration: none;
                      border-radius: 5px; font-weight: bold; display: inline-block;">
                Verify Email Address
            </a>
        </div>
        <p style="color: #999; font-size: 12px; margin-top: 30px;">
            If the button doesn't work, copy and paste this link into your browser:<br>
            <a href="{{.VerificationURL}}" style="color: #1db9a0;">{{.VerificationURL}}</a>
        </p>
        <p style="color: #999; font-size: 12px;">
            This link will expire in 24 hours. If you didn't sign up for Auralis,
            you can safely ignore this email.
        </p>
    </div>
</body>
</html>`

	tmpl, err := template.New("verification").Parse(htmlTemplate)
	if err != nil {
		return err
	}

	var htmlBody bytes.Buffer
	err = tmpl.Execute(&htmlBody, map[string]string{
		"Name":            user.Name,
		"VerificationURL": verificationURL,
	})
	if err != nil {
		return err
	}

	textBody := fmt.Sprintf(`Welcome to Auralis!

Thank you for signing up, %s. To complete your registration, please verify your email address by clicking the link below:

%s

This link will expire in 24 hours.

If you didn't sign up for Auralis, you can safely ignore this email.
`, user.Name, verificationURL)

	return s.send(user.Email, "Verify Your Email - Auralis", htmlBody.String(), textBody)
}

// VerifyEmail verifies an email using the provided token
func (s *EmailService) VerifyEmail(token string) error {
	var verificationToken models.EmailVerificationToken
	if err := s.db.Where("token = ?", token).First(&verificationToken).Error; err != nil {
		return fmt.Errorf("invalid verification token")
	}

	if verificationToken.UsedAt != nil {
		return fmt.Errorf("verification token already used")
	}

	if time.Now().After(verificationToken.ExpiresAt) {
		return fmt.Errorf("verification token expired")
	}

	tx := s.db.Begin()

	now := time.Now()
	verificationToken.UsedAt = &now
	if err := tx.Save(&verificationToken).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Model(&models.User{}).Where("id = ?", verificationToken.UserID).
		Update("email_verified", true).Error; err != nil {
		tx.Rollback()
		return err
	}

	tx.Commit()
	return nil
}

// ResendVerificationEmail generates a new token and resends the verification email
func (s *EmailService) ResendVerificationEmail(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return fmt.Errorf("user not found")
	}

	if user.EmailVerified {
		return fmt.Errorf("email already verified")
	}

	// Invalidate old tokens
	s.db.Model(&models.EmailVerificationToken{}).
		Where("user_id = ? AND used_at IS NULL", user.ID).
		Update("used_at", time.Now())

	token, err := s.GenerateVerificationToken(user.ID)
	if err != nil {
		return err
	}

	return s.SendVerificationEmail(&user, token)
}

// SendProfileCodeEmail mails the listener their profile code after a
// playlist is generated, so the profile can be re-imported on any
// device without an account.
func (s *EmailService) SendProfileCodeEmail(user *models.User, code string, trackCount int) error {
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #333;">Your Auralis profile code</h2>
    <p style="color: #666; line-height: 1.6;">
        We just built you a playlist of %d tracks. This code captures your
        listening profile; paste it into any future interview to skip the
        questions you've already answered.
    </p>
    <p style="font-family: monospace; font-size: 18px; background: #f4f4f4;
              padding: 15px; border-radius: 5px; text-align: center;">MPC: %s</p>
</body>
</html>`, trackCount, code)

	textBody := fmt.Sprintf(`Your Auralis profile code

We just built you a playlist of %d tracks. Keep this code to restore your
listening profile on any device:

MPC: %s
`, trackCount, code)

	return s.send(user.Email, "Your Auralis Profile Code", htmlBody, textBody)
}

func (s *EmailService) send(to, subject, htmlBody, textBody string) error {
	if !s.cfg.EmailEnabled {
		return nil
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.cfg.EmailFrom),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &ses.Body{
				Html: &ses.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
				Text: &ses.Content{
					Data:    aws.String(textBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	_, err := s.sesClient.SendEmail(input)
	return err
}
