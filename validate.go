package translateplus

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	errBatchEmpty = validation.NewError("translateplus.batch.empty", "Texts list cannot be empty")
	errBatchSize  = validation.NewError("translateplus.batch.too_large", "Maximum 100 texts allowed per batch request")
	errFormat     = validation.NewError("translateplus.subtitles.format", "Format must be 'srt' or 'vtt'")
	errTargets    = validation.NewError("translateplus.i18n.targets", "targetLanguages must be a non-empty list")
	errJobID      = validation.NewError("translateplus.i18n.job_id", "jobID must not be empty")
)

func validateBatch(texts []string) error {
	return toValidationError(validation.Validate(texts,
		validation.Required.ErrorObject(errBatchEmpty),
		validation.Length(1, MaxBatchSize).ErrorObject(errBatchSize),
	))
}

func validateSubtitleFormat(format string) error {
	return toValidationError(validation.Validate(format,
		validation.Required.ErrorObject(errFormat),
		validation.In(FormatSRT, FormatVTT).ErrorObject(errFormat),
	))
}

func validateI18nJob(filePath string, targets []string) error {
	if err := validation.Validate(filePath, validation.By(fileExists)); err != nil {
		return toValidationError(err)
	}
	return toValidationError(validation.Validate(targets,
		validation.Required.ErrorObject(errTargets),
	))
}

func validateJobID(jobID string) error {
	return toValidationError(validation.Validate(jobID,
		validation.Required.ErrorObject(errJobID),
	))
}

// fileExists accepts a path naming an existing file that is not a directory.
func fileExists(value any) error {
	path, _ := value.(string)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return validation.NewError("translateplus.i18n.file", "File not found: "+path)
	}
	return nil
}
