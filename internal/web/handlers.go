package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/label-verify/internal/labelcheck"
	"github.com/ironsheep/label-verify/internal/verify"
)

// Error messages for malformed uploads.
const (
	MsgNoFile       = "No image file provided."
	MsgNoSelection  = "No selected file."
	MsgTooLarge     = "Image file is too large."
	msgInvalidInput = "Invalid request body."
)

// Form field names of POST /verify.
const (
	FormImage          = "label_image"
	FormBrandName      = "brand_name"
	FormProductClass   = "product_class"
	FormAlcoholContent = "alcohol_content"
	FormNetContents    = "net_contents"
)

func (s *Server) healthz(c *gin.Context) {
	body := gin.H{
		"status":      "ok",
		"ocr_backend": s.svc.Backend(),
	}
	if v := s.svc.EngineVersion(); v != "" {
		body["ocr_engine"] = v
	}
	c.JSON(http.StatusOK, body)
}

// verifyImage handles the multipart label upload.
func (s *Server) verifyImage(c *gin.Context) {
	fh, err := c.FormFile(FormImage)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": MsgTooLarge})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": MsgNoFile})
		}
		return
	}
	if fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgNoSelection})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": labelcheck.UserMessage(err)})
		return
	}
	defer f.Close()

	declared := verify.DeclaredFields{
		BrandName:      c.PostForm(FormBrandName),
		ProductClass:   c.PostForm(FormProductClass),
		AlcoholContent: c.PostForm(FormAlcoholContent),
		NetContents:    c.PostForm(FormNetContents),
	}

	res := s.svc.CheckUpload(c.Request.Context(), f, fh.Filename, declared)
	if res.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": *res.Error})
		return
	}
	c.JSON(http.StatusOK, s.sanitize(res))
}

// verifyTextRequest is the body of POST /verify/text.
type verifyTextRequest struct {
	OCRText string `json:"ocr_text"`
	verify.DeclaredFields
}

// verifyText checks already-extracted label text.
func (s *Server) verifyText(c *gin.Context) {
	var req verifyTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidInput})
		return
	}

	res := s.svc.CheckText(req.DeclaredFields, req.OCRText)
	c.JSON(http.StatusOK, s.sanitize(res))
}

// sanitize strips markup from the values echoed back from the form. Values
// that needed sanitizing come back HTML-escaped. OCR text is returned as read.
func (s *Server) sanitize(res *verify.Result) *verify.Result {
	out := *res
	out.Checks = make([]verify.FieldCheckResult, len(res.Checks))
	for i, c := range res.Checks {
		c.DeclaredValue = s.stripTags(c.DeclaredValue)
		c.Message = s.stripTags(c.Message)
		out.Checks[i] = c
	}
	return &out
}

func (s *Server) stripTags(v string) string {
	if !strings.ContainsAny(v, "<>") {
		return v
	}
	return s.sanitizer.Sanitize(v)
}
