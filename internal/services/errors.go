package services

import "errors"

var (
  // ErrBadRequest marks requests rejected before any outbound call.
  ErrBadRequest           = errors.New("bad request")
  // ErrServiceMisconfigured marks upstream failures caused by a missing or
  // invalid completion API credential.
  ErrServiceMisconfigured = errors.New("ai service misconfigured")
  // ErrUpstreamFailure marks any other completion client failure.
  ErrUpstreamFailure      = errors.New("ai service failed")
)
