package bankapi

import (
	"bytes"
	"context"
	"net/http"
	"strings"
)

// Document types accepted by the KYC endpoints.
const (
	DocumentAadhar = "AADHAR"
	DocumentPAN    = "PAN"
)

// Upload is one KYC document file.
type Upload struct {
	DocumentType string
	FileName     string
	Data         []byte
}

// Validate checks the upload before it is sent.
func (u Upload) Validate() error {
	if strings.TrimSpace(u.DocumentType) == "" {
		return validationError("document_type_required", "document type is required")
	}
	if len(u.Data) == 0 {
		return validationError("file_required", "file is empty")
	}
	if strings.TrimSpace(u.FileName) == "" {
		return validationError("file_name_required", "file name is required")
	}
	return nil
}

func (u Upload) form() *Multipart {
	return &Multipart{
		Fields:    map[string]string{"documentType": u.DocumentType},
		FileField: "file",
		FileName:  u.FileName,
		File:      bytes.NewReader(u.Data),
	}
}

// UploadDocument sends a KYC document of any type.
func (c *Client) UploadDocument(ctx context.Context, u Upload) (KYCDocument, error) {
	return c.upload(ctx, "/api/kyc/upload", u)
}

// UploadAadhar sends an Aadhaar card scan.
func (c *Client) UploadAadhar(ctx context.Context, fileName string, data []byte) (KYCDocument, error) {
	return c.upload(ctx, "/api/kyc/upload/AADHAR", Upload{DocumentType: DocumentAadhar, FileName: fileName, Data: data})
}

// UploadPAN sends a PAN card scan.
func (c *Client) UploadPAN(ctx context.Context, fileName string, data []byte) (KYCDocument, error) {
	return c.upload(ctx, "/api/kyc/upload/PAN", Upload{DocumentType: DocumentPAN, FileName: fileName, Data: data})
}

func (c *Client) upload(ctx context.Context, path string, u Upload) (KYCDocument, error) {
	if err := u.Validate(); err != nil {
		return KYCDocument{}, err
	}
	return call[KYCDocument](ctx, c, Request{Method: http.MethodPost, Path: path, Form: u.form()})
}

// KYCStatus returns the verification state and submitted documents.
func (c *Client) KYCStatus(ctx context.Context) (KYCStatus, error) {
	return call[KYCStatus](ctx, c, Request{Method: http.MethodGet, Path: "/api/kyc/status"})
}

// MyDocuments lists the signed-in customer's documents.
func (c *Client) MyDocuments(ctx context.Context) ([]KYCDocument, error) {
	page, err := callPage[KYCDocument](ctx, c, Request{Method: http.MethodGet, Path: "/api/kyc/my-documents"})
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

// DownloadDocument fetches a stored document file.
func (c *Client) DownloadDocument(ctx context.Context, documentID int64) (Download, error) {
	return c.download(ctx, Request{
		Method: http.MethodGet,
		Path:   pathf("/api/kyc/download/%s", documentID),
		Route:  "/api/kyc/download/{id}",
	})
}
