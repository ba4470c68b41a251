package decompose

// decompositionPrompt is the prompt template for AI-assisted decomposition.
// The response must use the tagged STEP format parsed by ParseStepResponse.
const decompositionPrompt = `Break this task into atomic, dependency-ordered subtasks. Each subtask should be a single operation on a single target.

Task:
%s

%s

Respond ONLY with steps in this exact format (no other text):

STEP 1: create - Create the user model with validation
TYPE: create
TARGET: models/user.js
DEPENDS: none

STEP 2: write - Write unit tests for the user model
TYPE: write
TARGET: models/user.test.js
DEPENDS: 1

Rules:
- TYPE must be one of: read, write, edit, create, delete, execute
- TARGET is the file or resource the step operates on (omit if none)
- DEPENDS is "none" or a comma-separated list of earlier step numbers
- Steps must be atomic: one operation, one target
- Only add a dependency when the step truly needs the earlier step's output
- Number steps sequentially starting from 1`
