package services

import (
	"bytes"
	"fmt"
	"log"

	"github.com/nguyenthenguyen/docx"
)

const (
	mimeDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDoc       = "application/msword"
	mimePDF       = "application/pdf"
	mimePlainText = "text/plain"
)

// UploadedFile is an in-memory uploaded document with its declared MIME type.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileNormalizer converts uploaded resumes and cover letters into payloads the
// extraction AI accepts. DOCX content is extracted to plain text; legacy .doc
// resumes are rejected; every other resume format (PDF, TXT, images) passes
// through unmodified since the AI reads those directly. Cover letter
// normalization never fails: formats without an extraction path produce a
// placeholder string naming the file.
type FileNormalizer interface {
	NormalizeResume(file UploadedFile) (ResumePayload, error)
	NormalizeCoverLetter(file UploadedFile) string
}

type fileNormalizer struct{}

func NewFileNormalizer() FileNormalizer {
	return &fileNormalizer{}
}

// NormalizeResume implements FileNormalizer.
func (n *fileNormalizer) NormalizeResume(file UploadedFile) (ResumePayload, error) {
	switch file.ContentType {
	case mimeDocx:
		text, err := extractDocxText(file.Data)
		if err != nil {
			log.Printf("❌ Error extracting text from resume DOCX document: %v\n", err)
			return ResumePayload{}, fmt.Errorf("Failed to extract text from resume DOCX document: %v", err)
		}
		return ResumePayload{MIMEType: mimePlainText, Data: []byte(text)}, nil

	case mimeDoc:
		log.Println("⚠️ .doc file type for resume is not supported for text extraction.")
		return ResumePayload{}, fmt.Errorf("Direct processing of .doc resume files is not supported. Please convert to .docx, PDF, or TXT.")

	default:
		return ResumePayload{MIMEType: file.ContentType, Data: file.Data}, nil
	}
}

// NormalizeCoverLetter implements FileNormalizer.
func (n *fileNormalizer) NormalizeCoverLetter(file UploadedFile) string {
	switch file.ContentType {
	case mimeDocx:
		text, err := extractDocxText(file.Data)
		if err != nil {
			log.Printf("⚠️ Could not extract text from cover letter DOCX: %v\n", err)
			return "Cover letter provided as DOCX, but text extraction failed."
		}
		return text

	case mimePlainText:
		return string(file.Data)

	case mimePDF:
		log.Println("⚠️ PDF cover letter uploaded. Passing a placeholder to the AI.")
		return fmt.Sprintf("Cover letter provided as a PDF file (%s). Content not directly extracted in this step.", file.Name)

	case mimeDoc:
		log.Println("⚠️ .doc file type for cover letter is not supported for text extraction. Passing a placeholder to the AI.")
		return fmt.Sprintf("Cover letter provided as a .doc file (%s). Content not extracted. Please use .docx, .txt or .pdf.", file.Name)

	default:
		log.Printf("⚠️ Unsupported cover letter file type: %s. Passing a placeholder.\n", file.ContentType)
		return fmt.Sprintf("Cover letter provided as %s (type: %s), but its content could not be extracted as text in this step.", file.Name, file.ContentType)
	}
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
