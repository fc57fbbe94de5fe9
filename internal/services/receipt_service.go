package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ReceiptService uploads expense receipts to Cloudinary
type ReceiptService struct {
	cld *cloudinary.Cloudinary
}

// NewReceiptService builds the receipt uploader from the environment
func NewReceiptService() (*ReceiptService, error) {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("missing Cloudinary configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &ReceiptService{cld: cld}, nil
}

// UploadReceipt uploads a receipt image for an expense and returns its URL
func (s *ReceiptService) UploadReceipt(file multipart.File, filename, userID string, expenseID uint) (string, error) {
	allowedTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".pdf":  true,
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedTypes[ext] {
		return "", fmt.Errorf("invalid file type: %s. Allowed types: jpg, jpeg, png, webp, pdf", ext)
	}

	publicID := fmt.Sprintf("receipts/user_%s_expense_%d", userID, expenseID)

	uploadParams := uploader.UploadParams{
		PublicID:       publicID,
		Folder:         "fintrack/receipts",
		Overwrite:      &[]bool{true}[0],
		ResourceType:   "auto",
		Transformation: "q_auto,f_auto",
	}

	result, err := s.cld.Upload.Upload(context.Background(), file, uploadParams)
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}

	return result.SecureURL, nil
}

// DeleteReceipt removes a previously uploaded receipt
func (s *ReceiptService) DeleteReceipt(publicID string) error {
	_, err := s.cld.Upload.Destroy(context.Background(), uploader.DestroyParams{
		PublicID: publicID,
	})
	return err
}
