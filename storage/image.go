package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	AvatarMaxSide     = 512
	AvatarContentType = "image/jpeg"
	avatarQuality     = 85
)

var ErrInvalidImage = errors.New("file is not a supported image")

// PrepareAvatar декодирует картинку, вписывает её в квадрат 512px (без увеличения)
// и перекодирует в JPEG.
func PrepareAvatar(src io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	b := img.Bounds()
	if b.Dx() > AvatarMaxSide || b.Dy() > AvatarMaxSide {
		img = imaging.Fit(img, AvatarMaxSide, AvatarMaxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(avatarQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return &buf, nil
}

// AvatarKey — ключ объекта аватара: avatars/<user id>/<uuid>.jpg.
func AvatarKey(userID uuid.UUID) string {
	return fmt.Sprintf("avatars/%s/%s.jpg", userID, uuid.New())
}
