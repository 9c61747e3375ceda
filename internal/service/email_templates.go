package service

import (
	"fmt"
	"time"

	"github.com/templui/fittrack/internal/model"
)

func greeting(name string) string {
	if name == "" {
		return "Hi,"
	}
	return fmt.Sprintf("Hi %s,", name)
}

func welcomeEmailTemplate(name, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`%s

Your account is ready. Log your first meal or workout here:
%s

Best,
The %s Team`, greeting(name), dashboardURL, appName)

	return subject, body
}

func passwordResetEmailTemplate(name, resetURL string, expiry time.Duration, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your password for %s", appName)
	body := fmt.Sprintf(`%s

You requested to reset your password. Choose a new one here:
%s

This link expires in %s and can only be used once.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, greeting(name), resetURL, expiry, appName)

	return subject, body
}

func planReviewedEmailTemplate(name, planName, status, note, plansURL, appName string) (string, string) {
	if status == model.PlanStatusApproved {
		subject := fmt.Sprintf("Your workout plan %q was approved", planName)
		body := fmt.Sprintf(`%s

Good news: your workout plan %q was approved and is now visible to everyone on %s.

%s

Best,
The %s Team`, greeting(name), planName, appName, plansURL, appName)
		return subject, body
	}

	subject := fmt.Sprintf("Your workout plan %q needs changes", planName)
	body := fmt.Sprintf(`%s

Your workout plan %q was not approved. The reviewer left this note:

%s

Edit the plan and submit it again when you're ready:
%s

Best,
The %s Team`, greeting(name), planName, note, plansURL, appName)
	return subject, body
}

func accountDeletedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`%s

Your account and all of your logged meals, workouts, weights and goals have been permanently deleted.

Best,
The %s Team`, greeting(name), appName)

	return subject, body
}
