package repository

import "errors"

// ErrUnknownDataset is returned for a dataset kind with no file layout.
var ErrUnknownDataset = errors.New("unknown dataset")
