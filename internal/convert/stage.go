package convert

import (
	"fmt"

	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

func (cv *conversion) stage(v *crmodel.Stage) (*domain.Stage, error) {
	if v == nil {
		return nil, crerrors.NewConversionError(crerrors.ErrMissingMandatoryField, "stage declaration is empty")
	}

	vars, err := cv.variables(v.EnvironmentVariables)
	if err != nil {
		return nil, err
	}

	stage := &domain.Stage{
		Name:                      domain.NewCaseInsensitiveString(v.Name),
		FetchMaterials:            v.ShouldFetchMaterials(),
		CleanWorkingDir:           v.CleanWorkingDirectory,
		ArtifactCleanupProhibited: v.NeverCleanupArtifacts,
		Approval:                  ToApproval(v.Approval),
		Variables:                 vars,
		Jobs:                      make([]*domain.Job, 0, len(v.Jobs)),
	}

	for _, j := range v.Jobs {
		job, err := cv.job(j)
		if err != nil {
			if j != nil {
				return nil, fmt.Errorf("job %q: %w", j.Name, err)
			}
			return nil, err
		}
		stage.Jobs = append(stage.Jobs, job)
	}
	return stage, nil
}

// ToApproval converts a stage approval. Anything but "manual", including no
// approval at all, triggers on success of the previous stage.
func ToApproval(a *crmodel.Approval) domain.Approval {
	if a == nil {
		return domain.Approval{Type: domain.ApprovalSuccess}
	}

	approval := domain.Approval{
		Type: domain.ApprovalSuccess,
		Authorization: domain.AuthConfig{
			Roles: domain.NewCaseInsensitiveStrings(a.Roles),
			Users: domain.NewCaseInsensitiveStrings(a.Users),
		},
	}
	if a.Type == crmodel.ApprovalManual {
		approval.Type = domain.ApprovalManual
	}
	return approval
}
