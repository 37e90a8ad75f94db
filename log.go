package uprove

import (
	"github.com/privacybydesign/uprove/ec"
	"github.com/privacybydesign/uprove/ecparams"
	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
	ec.Logger = Logger
	ecparams.Logger = Logger
}
