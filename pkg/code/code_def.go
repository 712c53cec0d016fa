package code

import "net/http"

var (
	Success = NewSuss(200, "success")

	ErrorInvalidParams        = NewError(10001, http.StatusBadRequest, "invalid request parameters")
	ErrorNotUserAuthToken     = NewError(10002, http.StatusUnauthorized, "missing authorization token")
	ErrorInvalidUserAuthToken = NewError(10003, http.StatusUnauthorized, "invalid authorization token")
	ErrorTooManyRequests      = NewError(10004, http.StatusTooManyRequests, "too many requests")
	ErrorServerInternal       = NewError(10005, http.StatusInternalServerError, "internal server error")
	ErrorNotFoundAPI          = NewError(10006, http.StatusNotFound, "not found")

	ErrorRecordAddFailed  = NewError(20001, http.StatusInternalServerError, "failed to store records")
	ErrorRecordGetFailed  = NewError(20002, http.StatusInternalServerError, "failed to load records")
	ErrorStoreWipeFailed  = NewError(20003, http.StatusInternalServerError, "failed to wipe store")
	ErrorHistoryAddFailed = NewError(20004, http.StatusInternalServerError, "failed to store history")
	ErrorHistoryGetFailed = NewError(20005, http.StatusInternalServerError, "failed to load history")
	ErrorHistoryDelFailed = NewError(20006, http.StatusInternalServerError, "failed to delete history")
	ErrorCalendarFailed   = NewError(20007, http.StatusInternalServerError, "failed to aggregate calendar")
	ErrorInvalidFocus     = NewError(20008, http.StatusBadRequest, "invalid calendar focus")
	ErrorInvalidTimezone  = NewError(20009, http.StatusBadRequest, "invalid timezone")
	ErrorInvalidTimestamp = NewError(20010, http.StatusBadRequest, "invalid timestamp")
	ErrorStatusGetFailed  = NewError(20011, http.StatusInternalServerError, "failed to load sync status")
)
