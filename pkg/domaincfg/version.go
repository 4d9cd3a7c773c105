package domaincfg

import (
	"fmt"

	"github.com/bft-labs/domaincfg/pkg/config"
	"github.com/bft-labs/domaincfg/pkg/log"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

// Version is the version of the domaincfg facade.
const Version = "1.0.0"

// ModuleVersions returns the version of each sub-package the facade
// depends on, keyed by module name.
func ModuleVersions() map[string]string {
	return map[string]string{
		"config":  config.Version,
		"log":     log.Version,
		"storage": storage.Version,
	}
}

// validateModuleVersions checks that all module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"config":  {config.Version, config.MinCompatibleVersion},
		"log":     {log.Version, log.MinCompatibleVersion},
		"storage": {storage.Version, storage.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}
	return nil
}

// isVersionCompatible checks if version >= minVersion.
// Assumes versions are in format "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
