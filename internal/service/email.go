package service

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host, port, username, password, from string) EmailService {
	p, _ := strconv.Atoi(port)
	return &emailService{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendAccessRequestNotification(ctx context.Context, ownerEmail, ownerName, requesterName, memorialTitle string) error {
	subject := fmt.Sprintf("New access request for %s", memorialTitle)
	body := fmt.Sprintf("Hello %s,\n\n%s has requested access to view the memorial page for %s.\n\nLog in to review and respond to this request.\n\nWith care,\nThe Everkeep Team", ownerName, requesterName, memorialTitle)
	return s.send(ownerEmail, subject, body)
}

func (s *emailService) SendAccessDecisionNotification(ctx context.Context, requesterEmail, requesterName, memorialTitle string, approved bool) error {
	name := requesterName
	if name == "" {
		name = "there"
	}
	if approved {
		subject := fmt.Sprintf("Your request to view %s was approved", memorialTitle)
		body := fmt.Sprintf("Hello %s,\n\nThe owner has approved your request. You can now visit the memorial page for %s.\n\nWith care,\nThe Everkeep Team", name, memorialTitle)
		return s.send(requesterEmail, subject, body)
	}
	subject := fmt.Sprintf("Your request to view %s", memorialTitle)
	body := fmt.Sprintf("Hello %s,\n\nThe owner was not able to approve your request to view the memorial page for %s at this time.\n\nWith care,\nThe Everkeep Team", name, memorialTitle)
	return s.send(requesterEmail, subject, body)
}

func (s *emailService) SendCollaboratorInvitation(ctx context.Context, email, code, memorialTitle, inviterName string) error {
	subject := fmt.Sprintf("Invitation to help care for %s", memorialTitle)
	body := fmt.Sprintf("Hello,\n\n%s has invited you to collaborate on the memorial page for %s.\n\nUse the following code to accept the invitation:\n\n%s\n\nThe invitation expires in 7 days.\n\nWith care,\nThe Everkeep Team", inviterName, memorialTitle, code)
	return s.send(email, subject, body)
}

func (s *emailService) SendOwnerDigest(ctx context.Context, email, subject, body string) error {
	return s.send(email, subject, body)
}
