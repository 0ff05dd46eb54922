package anomaly

import "errors"

var (
	ErrAnomalyNotFound        = errors.New("anomaly not found")
	ErrAnomalyAlreadyResolved = errors.New("anomaly already resolved")
)
