package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"rently/internal/domain"
	"rently/internal/models"
	"rently/internal/repository"
	"rently/pkg/email"
)

// NotificationService is the one fan-out point for side effects on state
// transitions: it writes the in-app row, then pushes over FCM and emails,
// both best-effort. A push or email failure is logged and swallowed; only a
// failure to write the row itself is returned.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
	mailer   *email.Client
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService, mailer *email.Client) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm, mailer: mailer}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	u, uerr := s.userRepo.GetByID(userID)
	if uerr != nil || u == nil {
		return nil
	}
	if s.fcm != nil && u.FCMToken != "" {
		_ = s.fcm.SendToUser(context.Background(), u.FCMToken, notifType, title, body, data)
	}
	s.sendEmail(u.Email, title, body)
	return nil
}

func (s *NotificationService) sendEmail(to, subject, body string) {
	if s.mailer == nil || to == "" {
		return
	}
	html := fmt.Sprintf("<p>%s</p><p>— The Rently team</p>", body)
	if _, err := s.mailer.Send(context.Background(), to, subject, html, body); err != nil {
		log.Printf("[Notify] email to %s failed: %v", to, err)
	}
}

func (s *NotificationService) NotifyBookingRequested(ownerID, bookingID uint, renterName, listingTitle string) error {
	return s.Notify(ownerID, domain.NotifBookingRequested, "New booking request",
		renterName+" requested to rent "+listingTitle,
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyBookingConfirmed(renterID, bookingID uint, listingTitle string) error {
	return s.Notify(renterID, domain.NotifBookingConfirmed, "Booking confirmed",
		"Your booking for "+listingTitle+" is confirmed",
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyBookingCancelled(userID, bookingID uint, listingTitle string) error {
	return s.Notify(userID, domain.NotifBookingCancelled, "Booking cancelled",
		"The booking for "+listingTitle+" was cancelled",
		map[string]interface{}{"booking_id": bookingID})
}

// NotifyPickupConfirmed tells the other party one side has confirmed handover.
func (s *NotificationService) NotifyPickupConfirmed(userID, bookingID uint, byName string) error {
	return s.Notify(userID, domain.NotifPickupConfirmed, "Pickup confirmed",
		byName+" confirmed the pickup. Confirm on your side to start the rental.",
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyRentalStarted(userID, bookingID uint, listingTitle string) error {
	return s.Notify(userID, domain.NotifRentalStarted, "Rental started",
		"The rental of "+listingTitle+" has started",
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyReturnConfirmed(userID, bookingID uint, listingTitle string) error {
	return s.Notify(userID, domain.NotifReturnConfirmed, "Return confirmed",
		"The return of "+listingTitle+" is confirmed",
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyPaymentReleased(ownerID, bookingID uint, amountCents int64) error {
	return s.Notify(ownerID, domain.NotifPaymentReleased, "Payout on the way",
		fmt.Sprintf("Your payout of $%.2f for booking #%d has been released", float64(amountCents)/100, bookingID),
		map[string]interface{}{"booking_id": bookingID, "amount_cents": amountCents})
}

func (s *NotificationService) NotifyReviewReceived(userID, reviewID uint, reviewerName string) error {
	return s.Notify(userID, domain.NotifReviewReceived, "New review",
		reviewerName+" left you a review",
		map[string]interface{}{"review_id": reviewID})
}

func (s *NotificationService) NotifyPointsAwarded(userID uint, amount int64) error {
	return s.Notify(userID, domain.NotifPointsAwarded, "Points earned",
		fmt.Sprintf("You earned %d Rently points", amount), nil)
}

func (s *NotificationService) NotifyNewMessage(userID, conversationID uint, senderName string) error {
	return s.Notify(userID, domain.NotifNewMessage, "New message",
		senderName+" sent you a message",
		map[string]interface{}{"conversation_id": conversationID})
}

func (s *NotificationService) NotifyPayoutsEnabled(userID uint) error {
	return s.Notify(userID, domain.NotifPayoutsEnabled, "Payouts enabled",
		"Your payout account is ready. You can now receive rental earnings.", nil)
}

func (s *NotificationService) NotifyIdentityVerified(userID uint) error {
	return s.Notify(userID, domain.NotifIdentityVerified, "Identity verified",
		"Your identity has been verified. You can now book rentals.", nil)
}
