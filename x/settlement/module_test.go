package settlement_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	testkeeper "github.com/hashgrid/grid/testutil/keeper"
	"github.com/hashgrid/grid/x/settlement"
	"github.com/hashgrid/grid/x/settlement/types"
)

func TestAppModuleBasic(t *testing.T) {
	var amb settlement.AppModuleBasic
	require.Equal(t, types.ModuleName, amb.Name())

	bz := amb.DefaultGenesis(nil)
	require.NoError(t, amb.ValidateGenesis(nil, nil, bz))

	require.Error(t, amb.ValidateGenesis(nil, nil, json.RawMessage(`{"next_job_id": "oops"`)))

	bad := types.DefaultGenesis()
	bad.NextJobId = 0
	bad.Jobs = []types.Job{{Id: 3}}
	badBz, err := json.Marshal(bad)
	require.NoError(t, err)
	require.Error(t, amb.ValidateGenesis(nil, nil, badBz))
}

func TestAppModuleGenesis(t *testing.T) {
	f := testkeeper.NewFixture(t)
	am := settlement.NewAppModule(nil, f.Keeper)

	am.InitGenesis(f.Ctx, nil, am.DefaultGenesis(nil))

	exported := am.ExportGenesis(f.Ctx, nil)
	var genState types.GenesisState
	require.NoError(t, json.Unmarshal(exported, &genState))
	require.Equal(t, uint64(1), genState.NextJobId)
	require.Equal(t, types.DefaultParams(), genState.Params)
}
