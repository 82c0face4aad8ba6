package server

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mrsingh-rishi/voice-doc/llm"
	"github.com/mrsingh-rishi/voice-doc/logger"
	"github.com/mrsingh-rishi/voice-doc/model"
	"github.com/mrsingh-rishi/voice-doc/service"
)

const (
	MsgContentGenerated     = "Content generated successfully."
	MsgApplicationGenerated = "Application generated successfully."
	MsgGenericFail          = "Something went wrong! Please try again later."
	MsgContentFail          = "Content generation failed."
	MsgUnclear              = "Transcript is too short or unclear."
	MsgInvalidBody          = "Invalid request body."
	MsgFileRequired         = "Audio file is required."
)

type textRequest struct {
	Prompt string `json:"prompt"`
}

type applicationRequest struct {
	Transcript string `json:"transcript"`
	Text       string `json:"text"`
	Name       string `json:"name"`
}

func (h *handlers) generateText(c *fiber.Ctx) error {
	var req textRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(model.Fail(MsgInvalidBody, err.Error()))
		}
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = llm.DefaultTextPrompt
	}

	result, err := h.svc.GenerateText(h.ctx, prompt)
	if err != nil {
		logger.Errorf("generate text failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(model.Fail(MsgGenericFail, MsgContentFail))
	}
	return c.JSON(model.OK(MsgContentGenerated, result))
}

func (h *handlers) generateApplication(c *fiber.Ctx) error {
	var req applicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.Fail(MsgInvalidBody, err.Error()))
	}
	transcript := req.Transcript
	if strings.TrimSpace(transcript) == "" {
		transcript = req.Text
	}

	app, err := h.svc.GenerateApplication(h.ctx, transcript, req.Name)
	if err != nil {
		return h.applicationError(c, err)
	}
	return c.JSON(model.OK(MsgApplicationGenerated, app))
}

// generateFromAudio runs the audio -> transcript -> application chain.
func (h *handlers) generateFromAudio(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.Fail(MsgFileRequired, err.Error()))
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.Fail(MsgFileRequired, err.Error()))
	}
	defer f.Close()

	result, err := h.svc.TranscribeAndGenerate(h.ctx, requestID(c), f, filepath.Ext(fh.Filename), c.FormValue("name"))
	if err != nil {
		return h.applicationError(c, err)
	}
	return c.JSON(model.OK(MsgApplicationGenerated, result))
}

func (h *handlers) applicationError(c *fiber.Ctx, err error) error {
	if service.IsInputError(err) {
		return c.Status(fiber.StatusBadRequest).JSON(model.Fail(MsgUnclear, err.Error()))
	}
	logger.Errorf("generate application failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(model.Fail(MsgGenericFail, service.VendorMessage(err)))
}
