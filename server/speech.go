package server

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/mrsingh-rishi/voice-doc/logger"
	"github.com/mrsingh-rishi/voice-doc/model"
	"github.com/mrsingh-rishi/voice-doc/service"
)

const (
	MsgTranscribed    = "Audio transcribed successfully."
	MsgTranscribeFail = "Something went wrong!"
	MsgSpeechReady    = "Speech generated successfully."
	MsgSpeechFail     = "Text-to-speech conversion failed."
)

func (h *handlers) speechToText(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.Fail(MsgFileRequired, err.Error()))
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.Fail(MsgFileRequired, err.Error()))
	}
	defer f.Close()

	transcription, err := h.svc.Transcribe(h.ctx, requestID(c), f, filepath.Ext(fh.Filename))
	if err != nil {
		logger.Errorf("speech-to-text failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(model.Fail(MsgTranscribeFail, service.VendorMessage(err)))
	}
	return c.JSON(model.OK(MsgTranscribed, transcription))
}

func (h *handlers) textToSpeech(c *fiber.Ctx) error {
	var req model.SpeechRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.Fail(MsgSpeechFail, err.Error()))
	}

	speech, err := h.svc.Speak(h.ctx, req)
	if err != nil {
		if service.IsInputError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(model.Fail(MsgSpeechFail, err.Error()))
		}
		logger.Errorf("text-to-speech failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(model.Fail(MsgSpeechFail, service.VendorMessage(err)))
	}
	return c.JSON(model.OK(MsgSpeechReady, speech))
}
