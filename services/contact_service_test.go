package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactSend(t *testing.T) {
	mail := newFakeMailer()
	svc := NewContactService(mail)

	err := svc.Send(context.Background(), ContactInput{
		Name:    " Pat ",
		Email:   "Pat@Example.com",
		Message: " Is the Super Skins pot carried over? ",
	})
	require.NoError(t, err)
	require.Len(t, mail.contacts, 1)
	assert.Equal(t, "Pat", mail.contacts[0].Name)
	assert.Equal(t, "pat@example.com", mail.contacts[0].Email)
	assert.Equal(t, "Is the Super Skins pot carried over?", mail.contacts[0].Message)
}

func TestContactSendValidation(t *testing.T) {
	mail := newFakeMailer()
	svc := NewContactService(mail)

	err := svc.Send(context.Background(), ContactInput{Email: "nope", Message: strings.Repeat("a", 5001)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "message")
	assert.Empty(t, mail.contacts)
}

func TestContactSendMailFailure(t *testing.T) {
	mail := newFakeMailer()
	mail.err = errors.New("smtp down")

	err := NewContactService(mail).Send(context.Background(), ContactInput{Name: "Pat", Email: "pat@example.com", Message: "hi"})
	assert.ErrorIs(t, err, mail.err)
}
