package handler

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/veermshah/congruency/internal/esign"
	"github.com/veermshah/congruency/internal/http/middleware"
	"github.com/veermshah/congruency/internal/model"
	"github.com/veermshah/congruency/internal/service"
)

// userIDFromCtx extracts the authenticated user's ID stored by
// middleware.RequireUser.
func userIDFromCtx(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(middleware.UserIDLocalKey).(uuid.UUID)
	return id, ok
}

// contractName decodes the :name path parameter.
func contractName(c *fiber.Ctx) string {
	name := c.Params("name")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "contract not found")
	case model.KindOf(err) == model.KindValidation:
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case model.KindOf(err) == model.KindRemote, model.KindOf(err) == model.KindTransport:
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "upstream service unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

type generateRequest struct {
	Message string `json:"message"`
}

type generateResponse struct {
	Content string `json:"content"`
}

// GenerateContract handles POST /generate: sends the prompt to the
// completion endpoint and returns the full contract text.
func GenerateContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req generateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		content, err := svc.Generate(c.UserContext(), req.Message)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(generateResponse{Content: content})
	}
}

type saveContractRequest struct {
	Content  string `json:"content"`
	FileName string `json:"file_name"`
}

// SaveContract handles POST /contracts: renders the contract text to PDF
// and stores it under the caller's prefix.
func SaveContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, ok := userIDFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		}

		var req saveContractRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		file, err := svc.SaveGenerated(c.UserContext(), ownerID, req.Content, req.FileName)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(file)
	}
}

// UploadContract handles POST /contracts/upload (multipart/form-data,
// field name: file).
func UploadContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, ok := userIDFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		file, err := svc.Upload(c.UserContext(), ownerID, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(file)
	}
}

// ListContracts handles GET /contracts with an optional search query.
func ListContracts(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, ok := userIDFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		}

		files, err := svc.List(c.UserContext(), ownerID, c.Query("search"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(files)
	}
}

// DownloadContract handles GET /contracts/:name/download: streams the stored
// PDF as an attachment.
func DownloadContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, ok := userIDFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		}

		rc, info, err := svc.Download(c.UserContext(), ownerID, contractName(c))
		if err != nil {
			return writeServiceError(c, err)
		}

		ct := info.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", info.Name))
		return c.SendStream(rc, int(info.Size))
	}
}

// DeleteContract handles DELETE /contracts/:name and responds with the
// refreshed listing.
func DeleteContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, ok := userIDFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		}

		files, err := svc.Delete(c.UserContext(), ownerID, contractName(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(files)
	}
}

type shareLinkResponse struct {
	URL string `json:"url"`
}

// ShareContractLink handles GET /contracts/:name/link: returns a time-limited
// presigned download URL for sharing outside a session.
func ShareContractLink(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, ok := userIDFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		}

		expiry := 15 * time.Minute
		if ttl := c.QueryInt("ttl_min"); ttl > 0 && ttl <= 7*24*60 {
			expiry = time.Duration(ttl) * time.Minute
		}

		u, err := svc.ShareLink(c.UserContext(), ownerID, contractName(c), expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(shareLinkResponse{URL: u})
	}
}

type signContractRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type signContractResponse struct {
	URL string `json:"url"`
}

// SignContract handles POST /contracts/:name/sign: routes the stored PDF
// through the e-signature provider and returns the signing session URL.
func SignContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, ok := userIDFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		}

		var req signContractRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Email == "" || req.Name == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "signer email and name are required")
		}

		signer := esign.Signer{
			Email:        req.Email,
			Name:         req.Name,
			ClientUserID: ownerID.String(),
		}
		u, err := svc.RequestSignature(c.UserContext(), ownerID, contractName(c), signer)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(signContractResponse{URL: u})
	}
}
