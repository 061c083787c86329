package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
)

// 入力検証はvalidatorパッケージが実装する
type ContactValidator interface {
	Validate(msg model.ContactMessage) error
}

// ContactUsecase はお問い合わせを外部の窓口へ中継します。
// 中継先が落ちていたらローカルのキューに積んで受け付ける。
type ContactUsecase struct {
	contactRepo repo.ContactRepository
	validator   ContactValidator
	client      *http.Client
	relayURL    string
	clock       Clock
	idGen       IDGenerator
}

// DI
func NewContactUsecase(
	contactRepo repo.ContactRepository,
	validator ContactValidator,
	client *http.Client,
	relayURL string,
	clock Clock,
	idGen IDGenerator,
) *ContactUsecase {
	if client == nil {
		client = http.DefaultClient
	}
	return &ContactUsecase{
		contactRepo: contactRepo,
		validator:   validator,
		client:      client,
		relayURL:    relayURL,
		clock:       clock,
		idGen:       idGen,
	}
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactOutput struct {
	ID string `json:"id"`
	// 中継できずキュー送りになったらtrue
	Queued bool `json:"queued"`
}

func (u *ContactUsecase) Submit(ctx context.Context, in ContactInput) (ContactOutput, error) {
	msg := model.ContactMessage{
		ID:        u.idGen.NewID(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: u.clock.Now(),
	}

	if err := u.validator.Validate(msg); err != nil {
		return ContactOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := u.relay(ctx, msg); err != nil {
		// 中継失敗は後送用に積んで受け付ける
		if qErr := u.contactRepo.Enqueue(ctx, msg); qErr != nil {
			return ContactOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
		}
		return ContactOutput{ID: msg.ID, Queued: true}, nil
	}

	return ContactOutput{ID: msg.ID, Queued: false}, nil
}

func (u *ContactUsecase) relay(ctx context.Context, msg model.ContactMessage) error {
	if u.relayURL == "" {
		return fmt.Errorf("relay not configured")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.relayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("relay status %d", res.StatusCode)
	}
	return nil
}
