package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/perspective/database"
	"github.com/perspective/pkg/gorm"
)

type Subscribers struct {
	DB *database.Connection
}

type SubscribeResult struct {
	Subscriber        database.NewsletterSubscriber
	AlreadySubscribed bool
}

// Subscribe stores the email once. A repeated email is a soft success.
func (s Subscribers) Subscribe(ctx context.Context, email string) (*SubscribeResult, error) {
	email = NormaliseEmail(email)

	subscriber := database.NewsletterSubscriber{
		Email:    email,
		IsActive: true,
	}

	err := s.DB.Sql().WithContext(ctx).Create(&subscriber).Error

	if gorm.IsUniqueViolation(err) {
		existing, findErr := s.FindByEmail(ctx, email)
		if findErr != nil {
			return nil, findErr
		}

		return &SubscribeResult{Subscriber: *existing, AlreadySubscribed: true}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("issue subscribing [%s]: %w", email, err)
	}

	return &SubscribeResult{Subscriber: subscriber}, nil
}

func (s Subscribers) FindByEmail(ctx context.Context, email string) (*database.NewsletterSubscriber, error) {
	subscriber := database.NewsletterSubscriber{}

	result := s.DB.Sql().WithContext(ctx).Where("email = ?", NormaliseEmail(email)).First(&subscriber)

	if gorm.IsNotFound(result.Error) {
		return nil, ErrNotFound
	}

	if result.Error != nil {
		return nil, fmt.Errorf("issue fetching subscriber [%s]: %w", email, result.Error)
	}

	return &subscriber, nil
}

// List returns every subscriber, newest subscription first.
func (s Subscribers) List(ctx context.Context) ([]database.NewsletterSubscriber, error) {
	var subscribers []database.NewsletterSubscriber

	if err := s.DB.Sql().WithContext(ctx).Order("subscribed_at desc").Find(&subscribers).Error; err != nil {
		return nil, fmt.Errorf("issue fetching subscribers: %w", err)
	}

	return subscribers, nil
}

func (s Subscribers) Toggle(ctx context.Context, id string) (*database.NewsletterSubscriber, error) {
	subscriber, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	active := !subscriber.IsActive

	if err := s.DB.Sql().WithContext(ctx).Model(subscriber).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("issue toggling subscriber [%s]: %w", id, err)
	}

	subscriber.IsActive = active

	return subscriber, nil
}

func (s Subscribers) Delete(ctx context.Context, id string) error {
	subscriber, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.DB.Sql().WithContext(ctx).Delete(subscriber).Error; err != nil {
		return fmt.Errorf("issue deleting subscriber [%s]: %w", id, err)
	}

	return nil
}

func (s Subscribers) find(ctx context.Context, id string) (*database.NewsletterSubscriber, error) {
	subscriber := database.NewsletterSubscriber{}

	result := s.DB.Sql().WithContext(ctx).Where("id = ?", id).First(&subscriber)

	if gorm.IsNotFound(result.Error) {
		return nil, ErrNotFound
	}

	if result.Error != nil {
		return nil, fmt.Errorf("issue fetching subscriber [%s]: %w", id, result.Error)
	}

	return &subscriber, nil
}

func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
