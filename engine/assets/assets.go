package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/fpsanim/engine/assets/loaders"
	"github.com/spaghettifunk/fpsanim/engine/containers"
	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

// Changed files waiting for the next frame. The oldest are dropped when full.
const reloadQueueSize = 64

type AssetInfo struct {
	Name       string
	Path       string
	Type       resources.ResourceType
	LastLoaded time.Time
}

type AssetManager struct {
	// Indexed by type and file name without extension.
	assets  map[string]AssetInfo
	byPath  map[string]string
	loaders map[resources.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool

	reloadMutex sync.Mutex
	reloaded    *containers.RingQueue[string]
}

func NewAssetManager() *AssetManager {
	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		byPath:   make(map[string]string),
		loaders:  make(map[resources.ResourceType]Loader),
		done:     make(chan struct{}),
		reloaded: containers.NewRingQueue[string](reloadQueueSize),
	}
}

/**
 * @brief Indexes every asset under assetsDir and registers the built-in loaders.
 * @param assetsDir The root directory of the designer data.
 * @param watch Watches the directory tree and queues changed files for reload.
 */
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	if am.isClosed {
		return core.ErrAssetManagerClosed
	}

	am.RegisterLoader(resources.ResourceTypeConfig, &loaders.ConfigLoader{})
	am.RegisterLoader(resources.ResourceTypeWeapon, &loaders.WeaponLoader{})
	am.RegisterLoader(resources.ResourceTypeAimOffset, &loaders.AimOffsetLoader{})
	am.RegisterLoader(resources.ResourceTypeIKPose, &loaders.IKPoseLoader{})
	am.RegisterLoader(resources.ResourceTypeClip, &loaders.ClipLoader{})

	if !watch {
		return am.walk(assetsDir, false)
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	am.fsnotify = fsWatch
	am.stopped = make(chan struct{})
	go am.start()

	return am.walk(assetsDir, true)
}

// Shutdown stops the watcher. The index stays readable.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return core.ErrAssetManagerClosed
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	if am.stopped != nil {
		<-am.stopped
	}
	return nil
}

// RegisterLoader sets the loader of an asset type, replacing any previous one.
func (am *AssetManager) RegisterLoader(assetType resources.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(name string, resourceType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	if resourceType <= resources.ResourceTypeNone || resourceType > resources.ResourceTypeCustom {
		return nil, fmt.Errorf("%w: %d", core.ErrUnknownAssetType, resourceType)
	}

	key := assetKey(resourceType, name)
	am.mutex.Lock()
	asset, exists := am.assets[key]
	if exists {
		asset.LastLoaded = time.Now()
		am.assets[key] = asset
	}
	loader, loaderExists := am.loaders[resourceType]
	am.mutex.Unlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s %s", core.ErrAssetNotFound, resourceType, name)
	}
	if !loaderExists {
		return nil, fmt.Errorf("%w: %s", core.ErrNoLoader, resourceType)
	}

	resource, err := loader.Load(asset.Path, params)
	if err != nil {
		return nil, err
	}
	core.LogDebug("loaded %s '%s' from %s", resourceType, resource.Name, asset.Path)
	return resource, nil
}

func (am *AssetManager) UnloadAsset(resource *resources.Resource) error {
	if resource == nil {
		return nil
	}
	am.mutex.RLock()
	loader, ok := am.loaders[resource.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNoLoader, resource.Type)
	}
	return loader.Unload(resource)
}

func (am *AssetManager) LoadWeapon(name string) (*resources.WeaponAnimAsset, error) {
	r, err := am.LoadAsset(name, resources.ResourceTypeWeapon, nil)
	if err != nil {
		return nil, err
	}
	return r.Data.(*resources.WeaponAnimAsset), nil
}

func (am *AssetManager) LoadAimOffsetTable(name string) (*resources.AimOffsetTable, error) {
	r, err := am.LoadAsset(name, resources.ResourceTypeAimOffset, nil)
	if err != nil {
		return nil, err
	}
	return r.Data.(*resources.AimOffsetTable), nil
}

func (am *AssetManager) LoadIKPose(name string) (*resources.IKPose, error) {
	r, err := am.LoadAsset(name, resources.ResourceTypeIKPose, nil)
	if err != nil {
		return nil, err
	}
	return r.Data.(*resources.IKPose), nil
}

func (am *AssetManager) LoadClip(name string) (*graph.Clip, error) {
	r, err := am.LoadAsset(name, resources.ResourceTypeClip, nil)
	if err != nil {
		return nil, err
	}
	return r.Data.(*graph.Clip), nil
}

// Assets returns the sorted names of the indexed assets of a type.
func (am *AssetManager) Assets(resourceType resources.ResourceType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	names := make([]string, 0)
	for _, info := range am.assets {
		if info.Type == resourceType {
			names = append(names, info.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (am *AssetManager) Info(name string, resourceType resources.ResourceType) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[assetKey(resourceType, name)]
	return info, ok
}

/**
 * @brief Drains the files changed since the last call and fires
 * EVENT_CODE_ASSET_RELOADED once per indexed file. Runs on the frame goroutine.
 * @return The fired events, in change order.
 */
func (am *AssetManager) DrainReloaded() []core.AssetEvent {
	am.reloadMutex.Lock()
	paths := make([]string, 0, am.reloaded.Len())
	for !am.reloaded.IsEmpty() {
		p, _ := am.reloaded.Dequeue()
		paths = append(paths, p)
	}
	am.reloadMutex.Unlock()

	seen := make(map[string]bool, len(paths))
	events := make([]core.AssetEvent, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true

		am.mutex.RLock()
		key, ok := am.byPath[p]
		info := am.assets[key]
		am.mutex.RUnlock()
		if !ok {
			continue
		}

		e := core.AssetEvent{Path: info.Path, Name: info.Name}
		events = append(events, e)
		core.LogInfo("asset changed: %s", info.Path)
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_ASSET_RELOADED, Data: e})
	}
	return events
}

// queueReload is safe to call from the watcher goroutine.
func (am *AssetManager) queueReload(path string) {
	am.reloadMutex.Lock()
	defer am.reloadMutex.Unlock()
	if am.reloaded.IsFull() {
		dropped, _ := am.reloaded.Dequeue()
		core.LogWarn("reload queue full, dropping %s", dropped)
	}
	_ = am.reloaded.Enqueue(path)
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.walk(e.Name, true); err != nil {
						core.LogError("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if am.handleFileEvent(e.Name) {
					am.queueReload(filepath.Clean(e.Name))
				}
			}
			// A removed path may be a directory, drop it from the watch list either way.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// walk indexes every asset under root, adding directories to the watch list
// when watch is set.
func (am *AssetManager) walk(root string, watch bool) error {
	return filepath.Walk(root, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if watch {
				return am.fsnotify.Add(walkPath)
			}
			return nil
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file. Returns false for files
// that are not assets.
func (am *AssetManager) handleFileEvent(path string) bool {
	path = filepath.Clean(path)
	assetType := determineAssetType(path)
	if assetType == resources.ResourceTypeNone {
		return false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	name := assetName(path)
	key := assetKey(assetType, name)
	if existing, ok := am.assets[key]; ok && existing.Path != path {
		core.LogWarn("%s shadows %s", path, existing.Path)
		delete(am.byPath, existing.Path)
	}
	am.assets[key] = AssetInfo{
		Name:       name,
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
	am.byPath[path] = key
	return true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	path = filepath.Clean(path)
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if key, ok := am.byPath[path]; ok {
		delete(am.assets, key)
		delete(am.byPath, path)
	}
}

func assetKey(resourceType resources.ResourceType, name string) string {
	return resourceType.String() + "/" + name
}

func assetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// determineAssetType maps a file to its asset type by the directory it lives in.
func determineAssetType(path string) resources.ResourceType {
	if filepath.Ext(path) != ".toml" {
		return resources.ResourceTypeNone
	}
	if filepath.Base(path) == "config.toml" {
		return resources.ResourceTypeConfig
	}
	switch filepath.Base(filepath.Dir(path)) {
	case "weapons":
		return resources.ResourceTypeWeapon
	case "aim_offsets":
		return resources.ResourceTypeAimOffset
	case "ik_poses":
		return resources.ResourceTypeIKPose
	case "clips":
		return resources.ResourceTypeClip
	default:
		return resources.ResourceTypeNone
	}
}
