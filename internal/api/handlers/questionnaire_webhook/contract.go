package questionnaire_webhook

import (
	"context"

	completeQuestionnaire "github.com/m04kA/SMC-OpenHouseService/internal/usecase/complete_questionnaire"
)

type CompleteQuestionnaireUseCase interface {
	Execute(ctx context.Context, req *completeQuestionnaire.Request) (*completeQuestionnaire.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
