package engine

// Backend failure classes carried by error_response events. The set is
// closed; anything else maps to the internal-error message.
const (
	ErrClassReasoning          = "reasoning_error"
	ErrClassStepExecution      = "step_execution_error"
	ErrClassQueryExecution     = "query_execution_error"
	ErrClassResultExtraction   = "result_extraction_error"
	ErrClassResponseGeneration = "response_generation_error"
	ErrClassResponseParsing    = "response_parsing_error"
	ErrClassReportValidation   = "report_validation_error"
	ErrClassInternal           = "internal_error"
	ErrClassConfiguration      = "configuration_error"
	ErrClassRetryExhausted     = "retry_exhausted_error"
)

var errorMessages = map[string]string{
	ErrClassReasoning:          "I had trouble reasoning about that question. Try rephrasing it or breaking it into smaller parts.",
	ErrClassStepExecution:      "One of the steps needed to answer your question failed. Please try again.",
	ErrClassQueryExecution:     "The query against your data failed to execute. Please try again or simplify the question.",
	ErrClassResultExtraction:   "I ran the query but could not read the results back. Please try again.",
	ErrClassResponseGeneration: "I could not put together an answer from the results. Please try again.",
	ErrClassResponseParsing:    "The answer came back in a shape I could not parse. Please try again.",
	ErrClassReportValidation:   "The generated report did not pass validation, so I have nothing reliable to show. Please try again.",
	ErrClassInternal:           "Something unexpected went wrong. Please try again.",
	ErrClassConfiguration:      "The assistant is not configured correctly. Please contact your administrator.",
	ErrClassRetryExhausted:     "I retried several times without success. Please try again later.",
}

// ClassifyError maps a backend failure class to its user-facing message. It
// is total: unknown classes get the internal-error message, never an empty
// string and never a panic.
func ClassifyError(class string) string {
	if msg, ok := errorMessages[class]; ok {
		return msg
	}
	return errorMessages[ErrClassInternal]
}
