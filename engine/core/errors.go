package core

import (
	"errors"
)

var (
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidBone         = errors.New("invalid bone")
	ErrBoneNotFound        = errors.New("bone not found")
	ErrSkeletonIncomplete  = errors.New("skeleton is missing required bones")
	ErrLayerNotFound       = errors.New("layer not found")
	ErrLayerNotUnique      = errors.New("layer of the same type already registered")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrUnknownAssetType    = errors.New("unknown asset type")
	ErrNoLoader            = errors.New("no loader registered for asset type")
	ErrAssetManagerClosed  = errors.New("asset manager already closed")
	ErrNoWorkers           = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
	ErrJobSystemClosed     = errors.New("job system already shut down")
	ErrNotInitialized      = errors.New("not initialized")
	ErrStateNotFound       = errors.New("animation state not found")
	ErrInvalidClip         = errors.New("invalid clip")
	ErrUnknown             = errors.New("unknown")
)
