package contracts

// Minimal abi fragments of the towns contracts, only the view functions read by the tools.

const riverRegistryAbiJson = `[
	{
		"type": "function",
		"name": "getAllNodes",
		"inputs": [],
		"outputs": [
			{
				"name": "",
				"type": "tuple[]",
				"internalType": "struct Node[]",
				"components": [
					{ "name": "status", "type": "uint8", "internalType": "enum NodeStatus" },
					{ "name": "url", "type": "string", "internalType": "string" },
					{ "name": "nodeAddress", "type": "address", "internalType": "address" },
					{ "name": "operator", "type": "address", "internalType": "address" }
				]
			}
		],
		"stateMutability": "view"
	}
]`

// baseRegistryAbiJson combines the node operator and rewards distribution facets
// of the base registry diamond.
const baseRegistryAbiJson = `[
	{
		"type": "function",
		"name": "getOperatorStatus",
		"inputs": [{ "name": "operator", "type": "address", "internalType": "address" }],
		"outputs": [{ "name": "", "type": "uint8", "internalType": "enum NodeOperatorStatus" }],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "getCommissionRate",
		"inputs": [{ "name": "operator", "type": "address", "internalType": "address" }],
		"outputs": [{ "name": "", "type": "uint256", "internalType": "uint256" }],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "stakingState",
		"inputs": [],
		"outputs": [
			{
				"name": "",
				"type": "tuple",
				"internalType": "struct StakingStateView",
				"components": [
					{ "name": "riverToken", "type": "address", "internalType": "address" },
					{ "name": "totalStaked", "type": "uint96", "internalType": "uint96" },
					{ "name": "rewardDuration", "type": "uint256", "internalType": "uint256" },
					{ "name": "rewardEndTime", "type": "uint256", "internalType": "uint256" },
					{ "name": "lastUpdateTime", "type": "uint256", "internalType": "uint256" },
					{ "name": "rewardRate", "type": "uint256", "internalType": "uint256" },
					{ "name": "rewardPerTokenAccumulated", "type": "uint256", "internalType": "uint256" },
					{ "name": "nextDepositId", "type": "uint256", "internalType": "uint256" }
				]
			}
		],
		"stateMutability": "view"
	}
]`
