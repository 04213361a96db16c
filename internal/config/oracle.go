package config

import (
	"context"
	"time"

	contextPkg "ComputexChatbot/pkg/context"
	"ComputexChatbot/pkg/gemini"
	"ComputexChatbot/pkg/nlp"
	chatGPT "ComputexChatbot/pkg/openai"

	"github.com/sirupsen/logrus"
)

// NewOracle builds the generative fallback backend named by ORACLE_PROVIDER.
// A backend that cannot be configured is logged and left out; the chatbot
// then answers unknown messages with its fixed text. The returned closer is
// never nil.
func NewOracle(cfg *AppConfig, log *logrus.Logger) (nlp.Oracle, func() error) {
	noop := func() error { return nil }

	switch cfg.OracleProvider {
	case OracleGemini:
		client, err := gemini.NewGeminiClient(cfg.Gemini)
		if err != nil {
			log.WithFields(logrus.Fields{
				"provider": cfg.OracleProvider,
				"error":    err.Error(),
			}).Warn("Generative fallback disabled")
			return nil, noop
		}
		log.WithField("model", cfg.Gemini.ModelName).Info("Gemini fallback enabled")
		return newLoggedOracle(client, cfg.OracleProvider, log), client.Close

	case OracleOpenAI:
		client, err := chatGPT.NewChatGPT(cfg.OpenAI)
		if err != nil {
			log.WithFields(logrus.Fields{
				"provider": cfg.OracleProvider,
				"error":    err.Error(),
			}).Warn("Generative fallback disabled")
			return nil, noop
		}
		log.WithField("model", cfg.OpenAI.Model).Info("OpenAI-compatible fallback enabled")
		return newLoggedOracle(client, cfg.OracleProvider, log), noop

	default:
		log.Info("Generative fallback not configured")
		return nil, noop
	}
}

// loggedOracle records each fallback call with the request and session it
// served. The fallback hides oracle errors from users, so this is where they
// surface.
type loggedOracle struct {
	next     nlp.Oracle
	provider string
	log      *logrus.Logger
}

func newLoggedOracle(next nlp.Oracle, provider string, log *logrus.Logger) nlp.Oracle {
	return &loggedOracle{
		next:     next,
		provider: provider,
		log:      log,
	}
}

func (o *loggedOracle) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	output, err := o.next.Generate(ctx, prompt)

	fields := logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": contextPkg.GetSessionID(ctx),
		"provider":   o.provider,
		"latency":    time.Since(start).String(),
	}

	if err != nil {
		fields["error"] = err.Error()
		o.log.WithFields(fields).Warn("Generative fallback failed")
		return "", err
	}

	o.log.WithFields(fields).Debug("Generative fallback answered")
	return output, nil
}
