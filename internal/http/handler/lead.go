package handler

import (
	"errors"
	"fmt"
	"mime"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/justinloyola/alma/internal/model"
	"github.com/justinloyola/alma/internal/service"
	"github.com/justinloyola/alma/internal/upload"
)

// leadResponse augments the lead JSON with the resume download locator.
type leadResponse struct {
	*model.Lead
	ResumeURL string `json:"resume_url,omitempty"`
}

func newLeadResponse(svc service.LeadService, lead *model.Lead) leadResponse {
	return leadResponse{Lead: lead, ResumeURL: svc.ResumeURL(lead)}
}

// CreateLead handles the public submission form (multipart/form-data with
// first_name, last_name, email and a resume file).
func CreateLead(svc service.LeadService, policy *upload.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.CreateLeadInput{
			FirstName: c.FormValue("first_name"),
			LastName:  c.FormValue("last_name"),
			Email:     c.FormValue("email"),
			Storage:   model.StorageKind(c.FormValue("storage")),
		}

		fh, err := c.FormFile("resume")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD", "a resume file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		file, vErr := policy.Validate(f, fh.Filename)
		f.Close()
		if vErr != nil {
			return writeUploadError(c, vErr, policy)
		}
		in.Resume = file

		lead, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeLeadError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newLeadResponse(svc, lead))
	}
}

// ListLeads returns leads with skip/limit pagination.
func ListLeads(svc service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip, err := strconv.Atoi(c.Query("skip", "0"))
		if err != nil || skip < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SKIP", "invalid skip")
		}
		limit, err := strconv.Atoi(c.Query("limit", "100"))
		if err != nil || limit < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		leads, err := svc.List(c.UserContext(), skip, limit)
		if err != nil {
			return writeLeadError(c, err)
		}

		out := make([]leadResponse, 0, len(leads))
		for i := range leads {
			out = append(out, newLeadResponse(svc, &leads[i]))
		}
		return c.JSON(out)
	}
}

// GetLead returns a single lead by id.
func GetLead(svc service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := leadID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		lead, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeLeadError(c, err)
		}
		return c.JSON(newLeadResponse(svc, lead))
	}
}

// DownloadResume streams the lead's stored resume with its original
// filename and content type.
func DownloadResume(svc service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := leadID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		lead, rc, err := svc.OpenResume(c.UserContext(), id)
		if err != nil {
			return writeLeadError(c, err)
		}

		filename := "resume"
		if lead.ResumeOriginalFilename != nil {
			filename = *lead.ResumeOriginalFilename
		}
		if lead.ResumeMIMEType != nil {
			c.Set(fiber.HeaderContentType, *lead.ResumeMIMEType)
		}
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
		if lead.ResumeSize != nil {
			return c.SendStream(rc, int(*lead.ResumeSize))
		}
		return c.SendStream(rc)
	}
}

type updateLeadRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Status    *string `json:"status"`
}

// UpdateLead applies a partial update from a JSON body.
func UpdateLead(svc service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := leadID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateLeadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		in := service.UpdateLeadInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
		}
		if req.Status != nil {
			status := model.LeadStatus(*req.Status)
			in.Status = &status
		}

		lead, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return writeLeadError(c, err)
		}
		return c.JSON(newLeadResponse(svc, lead))
	}
}

// MarkReachedOut transitions the lead to reached_out.
func MarkReachedOut(svc service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := leadID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		lead, err := svc.MarkReachedOut(c.UserContext(), id)
		if err != nil {
			return writeLeadError(c, err)
		}
		return c.JSON(newLeadResponse(svc, lead))
	}
}

// DeleteLead removes a lead and its attachment.
func DeleteLead(svc service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := leadID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		ok, err := svc.Delete(c.UserContext(), id)
		if err != nil {
			return writeLeadError(c, err)
		}
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "lead not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func leadID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid lead id %q", c.Params("id"))
	}
	return id, nil
}

// writeLeadError translates service-layer sentinels into HTTP responses.
func writeLeadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoResume):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "lead not found")
	case errors.Is(err, service.ErrDuplicateEmail):
		return writeError(c, fiber.StatusBadRequest, "DUPLICATE_EMAIL", "a lead with this email already exists")
	case errors.Is(err, service.ErrNameRequired):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "first and last name are required")
	case errors.Is(err, service.ErrNameTooLong):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "first and last name must be at most 100 characters")
	case errors.Is(err, service.ErrResumeRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD", "a resume file is required")
	case errors.Is(err, service.ErrStatusReversal):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "a reached_out lead cannot return to pending")
	case errors.Is(err, service.ErrInvalidEmail):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid email address")
	case errors.Is(err, service.ErrInvalidStatus):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid lead status")
	case errors.Is(err, service.ErrInvalidStorage):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "unknown storage backend")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func writeUploadError(c *fiber.Ctx, err error, policy *upload.Policy) error {
	switch {
	case errors.Is(err, upload.ErrEmpty):
		return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD", "uploaded file is empty")
	case errors.Is(err, upload.ErrTooLarge):
		return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD",
			fmt.Sprintf("file exceeds the %d byte limit", policy.MaxSizeBytes()))
	case errors.Is(err, upload.ErrBadType):
		return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD", "unsupported file type; use PDF, JPEG or PNG")
	default:
		return writeError(c, fiber.StatusBadRequest, "INVALID_UPLOAD", "invalid upload")
	}
}
